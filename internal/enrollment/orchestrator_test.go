package enrollment_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/enrollment"
	"studyhive/internal/invites"
	"studyhive/internal/roster"
	"studyhive/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestAcceptClassScopedSingleUse(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")
	bob := testutil.SeedStudent(t, db, "bob")

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindSingleUse, nil)
	require.NoError(t, err)

	orch := enrollment.New(db)

	outcome, err := orch.AcceptInvite(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.True(t, outcome.ClassScoped)
	require.Equal(t, classID, outcome.ClassID)
	require.True(t, outcome.MembershipCreated)
	require.False(t, outcome.AlreadyEnrolled)

	students, err := roster.New(db).List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, alice, students[0].StudentID)

	// The single-use invite is spent; a second student is turned away and
	// the roster stays untouched.
	_, err = orch.AcceptInvite(context.Background(), invite.Token, bob)
	require.ErrorIs(t, err, invites.ErrAlreadyAccepted)

	students, err = roster.New(db).List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, 1)
}

func TestAcceptRecruitmentInvite(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	alice := testutil.SeedStudent(t, db, "alice")

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	orch := enrollment.New(db)

	outcome, err := orch.AcceptInvite(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.False(t, outcome.ClassScoped)
	require.False(t, outcome.AlreadyEnrolled)

	var linked bool
	err = db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM professor_students WHERE professor_id = ? AND student_id = ?
		)
	`, professorID, alice).Scan(&linked)
	require.NoError(t, err)
	require.True(t, linked)

	// Re-accepting is an idempotent no-op, not an error.
	outcome, err = orch.AcceptInvite(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.True(t, outcome.AlreadyEnrolled)

	var links int
	err = db.QueryRow("SELECT COUNT(*) FROM professor_students WHERE professor_id = ?", professorID).Scan(&links)
	require.NoError(t, err)
	require.Equal(t, 1, links)
}

func TestAcceptPermanentAdmitsManyStudents(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	orch := enrollment.New(db)

	usernames := []string{"alice", "bob", "carol"}
	for _, username := range usernames {
		studentID := testutil.SeedStudent(t, db, username)
		outcome, err := orch.AcceptInvite(context.Background(), invite.Token, studentID)
		require.NoError(t, err)
		require.True(t, outcome.MembershipCreated)
	}

	students, err := roster.New(db).List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, len(usernames))

	accepted, err := orch.ListAcceptedStudents(context.Background(), professorID)
	require.NoError(t, err)
	require.Len(t, accepted, len(usernames))
}

func TestAcceptExpiredInvite(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")

	past := time.Now().Add(-time.Hour)
	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindSingleUse, &past)
	require.NoError(t, err)

	_, err = enrollment.New(db).AcceptInvite(context.Background(), invite.Token, alice)
	require.ErrorIs(t, err, invites.ErrInviteExpired)

	var members int
	err = db.QueryRow("SELECT COUNT(*) FROM class_members").Scan(&members)
	require.NoError(t, err)
	require.Zero(t, members)
}

func TestAcceptUnknownToken(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.SeedStudent(t, db, "alice")

	_, err := enrollment.New(db).AcceptInvite(context.Background(), "no-such-token", alice)
	require.ErrorIs(t, err, invites.ErrInviteNotFound)
}

func TestAcceptUnknownStudent(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	_, err = enrollment.New(db).AcceptInvite(context.Background(), invite.Token, 424242)
	require.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestAcceptSkipsArchivedClasses(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")
	alice := testutil.SeedStudent(t, db, "alice")

	_, err := db.Exec("UPDATE classes SET archived = TRUE WHERE id = ?", classID)
	require.NoError(t, err)

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	// With no active class the accept falls back to a recruitment link.
	outcome, err := enrollment.New(db).AcceptInvite(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.False(t, outcome.ClassScoped)

	var members int
	err = db.QueryRow("SELECT COUNT(*) FROM class_members").Scan(&members)
	require.NoError(t, err)
	require.Zero(t, members)
}

func TestConcurrentSingleUseAccept(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	classID := testutil.SeedClass(t, db, professorID, "Algorithms")

	usernames := []string{"alice", "bob", "carol", "dave"}
	studentIDs := make([]int, len(usernames))
	for i, username := range usernames {
		studentIDs[i] = testutil.SeedStudent(t, db, username)
	}

	invite, err := invites.New(db).Create(context.Background(), professorID, invites.KindSingleUse, nil)
	require.NoError(t, err)

	orch := enrollment.New(db)
	errs := make([]error, len(studentIDs))

	var wg sync.WaitGroup
	for i, studentID := range studentIDs {
		wg.Add(1)
		go func(i, studentID int) {
			defer wg.Done()
			_, errs[i] = orch.AcceptInvite(context.Background(), invite.Token, studentID)
		}(i, studentID)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			require.ErrorIs(t, err, invites.ErrAlreadyAccepted)
			lost++
		}
	}
	require.Equal(t, 1, won, "exactly one claim must win the race")
	require.Equal(t, len(studentIDs)-1, lost)

	students, err := roster.New(db).List(context.Background(), classID)
	require.NoError(t, err)
	require.Len(t, students, 1)
}
