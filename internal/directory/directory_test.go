package directory_test

import (
	"context"
	"testing"

	"studyhive/internal/directory"
	"studyhive/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestUserExistenceIsRoleScoped(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	studentID := testutil.SeedStudent(t, db, "alice")
	svc := directory.New(db)

	ok, err := svc.ProfessorExists(context.Background(), professorID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.ProfessorExists(context.Background(), studentID)
	require.NoError(t, err)
	require.False(t, ok, "a student must not pass the professor check")

	ok, err = svc.StudentExists(context.Background(), studentID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.StudentExists(context.Background(), 424242)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInactiveUsersAreInvisible(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := directory.New(db)

	_, err := db.Exec("UPDATE users SET inactive_status = TRUE WHERE id = ?", professorID)
	require.NoError(t, err)

	ok, err := svc.ProfessorExists(context.Background(), professorID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveClassForInvitePicksNewestActiveClass(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := directory.New(db)

	classID, scoped, err := svc.ResolveClassForInvite(context.Background(), professorID)
	require.NoError(t, err)
	require.False(t, scoped)
	require.Zero(t, classID)

	first := testutil.SeedClass(t, db, professorID, "Algorithms")
	second := testutil.SeedClass(t, db, professorID, "Cryptography")

	classID, scoped, err = svc.ResolveClassForInvite(context.Background(), professorID)
	require.NoError(t, err)
	require.True(t, scoped)
	require.Equal(t, second, classID)

	_, err = db.Exec("UPDATE classes SET archived = TRUE WHERE id = ?", second)
	require.NoError(t, err)

	classID, scoped, err = svc.ResolveClassForInvite(context.Background(), professorID)
	require.NoError(t, err)
	require.True(t, scoped)
	require.Equal(t, first, classID)
}
