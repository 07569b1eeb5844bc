package invites_test

import (
	"context"
	"testing"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/invites"
	"studyhive/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestCreateAndResolve(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	invite, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)
	require.NotZero(t, invite.ID)
	require.Len(t, invite.Token, 43)
	require.Equal(t, invites.StatusPending, invite.Status)
	require.False(t, invite.ExpiresAt.Valid)

	view, err := svc.Resolve(context.Background(), invite.Token)
	require.NoError(t, err)
	require.Equal(t, invite.Token, view.Token)
	require.Equal(t, invites.KindPermanent, view.Kind)
	require.Equal(t, invites.StatusPending, view.Status)
	require.Equal(t, "Test turing", view.IssuerName)
}

func TestCreateRejectsUnknownIssuer(t *testing.T) {
	db := testutil.NewDB(t)
	svc := invites.New(db)

	_, err := svc.Create(context.Background(), 9999, invites.KindSingleUse, nil)
	require.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestCreateRejectsStudentIssuer(t *testing.T) {
	db := testutil.NewDB(t)
	studentID := testutil.SeedStudent(t, db, "ada")
	svc := invites.New(db)

	_, err := svc.Create(context.Background(), studentID, invites.KindSingleUse, nil)
	require.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestCreateRejectsInvalidKind(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	_, err := svc.Create(context.Background(), professorID, "multi_use", nil)
	require.ErrorIs(t, err, invites.ErrInvalidKind)
}

func TestResolveUnknownToken(t *testing.T) {
	db := testutil.NewDB(t)
	svc := invites.New(db)

	_, err := svc.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, invites.ErrInviteNotFound)
}

func TestResolveExpiredIsDerivedAtReadTime(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	// Zero TTL: expired the moment it is created, with no write ever
	// touching the row again.
	expiresAt := time.Now()
	invite, err := svc.Create(context.Background(), professorID, invites.KindSingleUse, &expiresAt)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), invite.Token)
	require.ErrorIs(t, err, invites.ErrInviteExpired)

	// The stored column still says pending; expiry is a projection.
	var stored string
	err = db.QueryRow("SELECT status FROM invites WHERE id = ?", invite.ID).Scan(&stored)
	require.NoError(t, err)
	require.Equal(t, invites.StatusPending, stored)
}

func TestResolveNoExpiryNeverExpires(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	invite, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	// Backdate creation by a year; with no expires_at the invite stays
	// resolvable.
	_, err = db.Exec("UPDATE invites SET created_at = ? WHERE id = ?",
		time.Now().AddDate(-1, 0, 0).UTC().Format("2006-01-02 15:04:05"), invite.ID)
	require.NoError(t, err)

	view, err := svc.Resolve(context.Background(), invite.Token)
	require.NoError(t, err)
	require.Equal(t, invites.StatusPending, view.Status)
}

func TestClaimSingleUseSecondStudentConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	alice := testutil.SeedStudent(t, db, "alice")
	bob := testutil.SeedStudent(t, db, "bob")
	svc := invites.New(db)

	invite, err := svc.Create(context.Background(), professorID, invites.KindSingleUse, nil)
	require.NoError(t, err)

	claimed, newAcceptance, err := svc.Claim(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.True(t, newAcceptance)
	require.Equal(t, invites.StatusAccepted, claimed.Status)

	_, _, err = svc.Claim(context.Background(), invite.Token, bob)
	require.ErrorIs(t, err, invites.ErrAlreadyAccepted)
}

func TestClaimExpiredBeatsNotFoundSemantics(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := invites.New(db)

	expiresAt := time.Now()
	invite, err := svc.Create(context.Background(), professorID, invites.KindSingleUse, &expiresAt)
	require.NoError(t, err)

	_, _, err = svc.Claim(context.Background(), invite.Token, alice)
	require.ErrorIs(t, err, invites.ErrInviteExpired)
	require.NotErrorIs(t, err, invites.ErrInviteNotFound)
}

func TestClaimPermanentManyStudents(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	invite, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	students := []string{"alice", "bob", "carol", "dave", "erin"}
	for _, name := range students {
		studentID := testutil.SeedStudent(t, db, name)
		claimed, newAcceptance, err := svc.Claim(context.Background(), invite.Token, studentID)
		require.NoError(t, err)
		require.True(t, newAcceptance)
		require.Equal(t, invites.StatusPending, claimed.Status, "permanent invite status is informational only")
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM invite_acceptances WHERE invite_id = ?", invite.ID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, len(students), count)
}

func TestClaimPermanentSameStudentIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := invites.New(db)

	invite, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	_, newAcceptance, err := svc.Claim(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.True(t, newAcceptance)

	_, newAcceptance, err = svc.Claim(context.Background(), invite.Token, alice)
	require.NoError(t, err)
	require.False(t, newAcceptance)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM invite_acceptances WHERE invite_id = ?", invite.ID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestListByIssuerDerivesExpiry(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	_, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	expiresAt := time.Now().Add(-time.Hour)
	stale, err := svc.Create(context.Background(), professorID, invites.KindSingleUse, &expiresAt)
	require.NoError(t, err)

	list, err := svc.ListByIssuer(context.Background(), professorID, 1, 20, "", "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := make(map[int]string)
	for _, inv := range list {
		byID[inv.ID] = inv.Status
	}
	require.Equal(t, invites.StatusExpired, byID[stale.ID])
}

func TestListByIssuerPaginates(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	svc := invites.New(db)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
		require.NoError(t, err)
	}

	page1, err := svc.ListByIssuer(context.Background(), professorID, 1, 3, "created_at", "asc")
	require.NoError(t, err)
	require.Len(t, page1, 3)

	page2, err := svc.ListByIssuer(context.Background(), professorID, 2, 3, "created_at", "asc")
	require.NoError(t, err)
	require.Len(t, page2, 2)
}

func TestStats(t *testing.T) {
	db := testutil.NewDB(t)
	professorID := testutil.SeedProfessor(t, db, "turing")
	alice := testutil.SeedStudent(t, db, "alice")
	svc := invites.New(db)

	accepted, err := svc.Create(context.Background(), professorID, invites.KindSingleUse, nil)
	require.NoError(t, err)
	_, _, err = svc.Claim(context.Background(), accepted.Token, alice)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), professorID, invites.KindPermanent, nil)
	require.NoError(t, err)

	expiresAt := time.Now().Add(-time.Hour)
	_, err = svc.Create(context.Background(), professorID, invites.KindSingleUse, &expiresAt)
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), professorID)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalInvites)
	require.Equal(t, 1, stats.AcceptedInvites)
	require.Equal(t, 1, stats.PendingInvites)
	require.Equal(t, 1, stats.ExpiredInvites)
	require.Equal(t, 1, stats.Acceptances)
	require.Equal(t, "0.3333", stats.AcceptanceRate.StringFixed(4))
}
