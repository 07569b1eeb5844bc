package directory

import (
	"context"
	"database/sql"
	"errors"

	"studyhive/pkg/utils"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrClassNotFound = errors.New("class not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so lookups can run inside a
// caller-owned transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Service answers existence questions about users and classes for the invite
// and roster flows.
type Service struct {
	q DBTX
}

func New(q DBTX) *Service {
	return &Service{q: q}
}

func (s *Service) ProfessorExists(ctx context.Context, id int) (bool, error) {
	return s.userExists(ctx, id, "professor")
}

func (s *Service) StudentExists(ctx context.Context, id int) (bool, error) {
	return s.userExists(ctx, id, "student")
}

func (s *Service) userExists(ctx context.Context, id int, role string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM users WHERE id = ? AND role = ? AND inactive_status = FALSE
		)
	`, id, role).Scan(&exists)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check user existence")
	}
	return exists, nil
}

func (s *Service) ClassExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM classes WHERE id = ? AND archived = FALSE
		)
	`, id).Scan(&exists)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check class existence")
	}
	return exists, nil
}

// ResolveClassForInvite maps an invite issuer to the class a class-scoped
// invite enrolls into: the professor's most recent non-archived class. A
// professor with no active class issues recruitment invites instead.
func (s *Service) ResolveClassForInvite(ctx context.Context, issuerID int) (int, bool, error) {
	var classID int
	err := s.q.QueryRowContext(ctx, `
		SELECT id FROM classes
		WHERE professor_id = ? AND archived = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, issuerID).Scan(&classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, utils.ErrorHandler(err, "failed to resolve class for invite")
	}
	return classID, true, nil
}
