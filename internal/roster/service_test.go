package roster_test

import (
	"context"
	"testing"

	"studyhive/internal/directory"
	"studyhive/internal/roster"
	"studyhive/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := roster.New(db)

	created, err := svc.Add(context.Background(), classID, alice)
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.Add(context.Background(), classID, alice)
	require.NoError(t, err)
	require.False(t, created, "second add of the same pair must report no new row")

	students, err := svc.List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, 1)
}

func TestAddRejectsUnknownClass(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedStudent(t, db, "alice")
	svc := roster.New(db)

	_, err := svc.Add(context.Background(), 424242, alice)
	require.ErrorIs(t, err, directory.ErrClassNotFound)
}

func TestAddRejectsArchivedClass(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := roster.New(db)

	_, err := db.Exec("UPDATE classes SET archived = TRUE WHERE id = ?", classID)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), classID, alice)
	require.ErrorIs(t, err, directory.ErrClassNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := roster.New(db)

	_, err := svc.Add(context.Background(), classID, alice)
	require.NoError(t, err)

	removed, err := svc.Remove(context.Background(), classID, alice)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = svc.Remove(context.Background(), classID, alice)
	require.NoError(t, err)
	require.False(t, removed, "removing an absent pair is not an error")
}

func TestListOrdersByJoinTime(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")
	bob := testutil.SeedStudent(t, db, "bob")
	svc := roster.New(db)

	_, err := svc.Add(context.Background(), classID, alice)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), classID, bob)
	require.NoError(t, err)

	students, err := svc.List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, alice, students[0].StudentID)
	require.Equal(t, bob, students[1].StudentID)
}

func TestListUnknownClass(t *testing.T) {
	db := testutil.NewDB(t)
	svc := roster.New(db)

	_, err := svc.List(context.Background(), 424242)
	require.ErrorIs(t, err, directory.ErrClassNotFound)
}
