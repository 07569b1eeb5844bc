package invites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/models"
	"studyhive/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	KindPermanent = "permanent"
	KindSingleUse = "single_use"

	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusExpired  = "expired"
)

const sqlTimeFormat = "2006-01-02 15:04:05"

var (
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteExpired   = errors.New("invite expired")
	ErrAlreadyAccepted = errors.New("invite already accepted")
	ErrInvalidKind     = errors.New("invalid invite kind")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx. The accept transition is
// only reachable through a transaction (see the enrollment package).
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Service manages the invite lifecycle: issuance, token resolution with lazy
// expiry, and the accept transition.
type Service struct {
	q   DBTX
	dir *directory.Service
}

func New(q DBTX) *Service {
	return &Service{q: q, dir: directory.New(q)}
}

// Create issues a pending invite for a professor. A nil expiresAt means the
// invite never expires.
func (s *Service) Create(ctx context.Context, issuerID int, kind string, expiresAt *time.Time) (models.Invite, error) {
	if kind != KindPermanent && kind != KindSingleUse {
		return models.Invite{}, ErrInvalidKind
	}

	exists, err := s.dir.ProfessorExists(ctx, issuerID)
	if err != nil {
		return models.Invite{}, err
	}
	if !exists {
		return models.Invite{}, directory.ErrUserNotFound
	}

	now := time.Now().UTC().Format(sqlTimeFormat)

	var expiry sql.NullString
	if expiresAt != nil {
		expiry = sql.NullString{String: expiresAt.UTC().Format(sqlTimeFormat), Valid: true}
	}

	// Token collisions are astronomically rare; the uniqueness constraint
	// catches them and we mint a fresh token.
	for attempt := 0; attempt < 3; attempt++ {
		token, err := GenerateToken()
		if err != nil {
			return models.Invite{}, err
		}

		res, err := s.q.ExecContext(ctx, `
			INSERT INTO invites (token, issuer_id, kind, status, expires_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, HashToken(token), issuerID, kind, StatusPending, expiry, now, now)
		if err != nil {
			if isDuplicateErr(err) {
				continue
			}
			return models.Invite{}, utils.ErrorHandler(err, "failed to create invite")
		}

		id, err := res.LastInsertId()
		if err != nil {
			return models.Invite{}, utils.ErrorHandler(err, "failed to get invite ID")
		}

		return models.Invite{
			ID:        int(id),
			Token:     token,
			IssuerID:  issuerID,
			Kind:      kind,
			Status:    StatusPending,
			ExpiresAt: expiry,
			CreatedAt: sql.NullString{String: now, Valid: true},
			UpdatedAt: sql.NullString{String: now, Valid: true},
		}, nil
	}

	return models.Invite{}, utils.ErrorHandler(errors.New("token collision retries exhausted"), "failed to create invite")
}

// Resolve looks an invite up by token and returns its public projection.
// Expiry is derived from expires_at at read time; the stored status column is
// never a precondition for detecting it.
func (s *Service) Resolve(ctx context.Context, token string) (models.InviteView, error) {
	var (
		view      models.InviteView
		expiresAt sql.NullString
		createdAt sql.NullString
		firstName string
		lastName  string
	)

	err := s.q.QueryRowContext(ctx, `
		SELECT i.kind, i.status, i.expires_at, i.created_at, u.first_name, u.last_name
		FROM invites i
		JOIN users u ON u.id = i.issuer_id
		WHERE i.token = ?
	`, HashToken(token)).Scan(&view.Kind, &view.Status, &expiresAt, &createdAt, &firstName, &lastName)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.InviteView{}, ErrInviteNotFound
		}
		return models.InviteView{}, utils.ErrorHandler(err, "failed to resolve invite")
	}

	if expired(expiresAt, time.Now()) {
		return models.InviteView{}, ErrInviteExpired
	}

	view.Token = token
	view.IssuerName = strings.TrimSpace(firstName + " " + lastName)
	view.ExpiresAt = expiresAt.String
	view.CreatedAt = createdAt.String

	return view, nil
}

// Claim performs the accept transition for a token within the caller's
// transaction and records the acceptance. It returns the invite and whether a
// new acceptance row was written (false only when the same student re-accepts
// a permanent invite).
//
// For single-use invites the status flip is a compare-and-swap guarded on
// status = 'pending', so exactly one of any number of concurrent claims
// succeeds; the rest observe ErrAlreadyAccepted.
func (s *Service) Claim(ctx context.Context, token string, studentID int) (models.Invite, bool, error) {
	var invite models.Invite
	err := s.q.QueryRowContext(ctx, `
		SELECT id, issuer_id, kind, status, expires_at, created_at, updated_at
		FROM invites
		WHERE token = ?
	`, HashToken(token)).Scan(
		&invite.ID, &invite.IssuerID, &invite.Kind, &invite.Status,
		&invite.ExpiresAt, &invite.CreatedAt, &invite.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Invite{}, false, ErrInviteNotFound
		}
		return models.Invite{}, false, utils.ErrorHandler(err, "failed to load invite")
	}

	now := time.Now()
	if expired(invite.ExpiresAt, now) {
		return models.Invite{}, false, ErrInviteExpired
	}

	nowStr := now.UTC().Format(sqlTimeFormat)

	if invite.Kind == KindSingleUse {
		if invite.Status == StatusAccepted {
			return models.Invite{}, false, ErrAlreadyAccepted
		}

		res, err := s.q.ExecContext(ctx, `
			UPDATE invites SET status = ?, updated_at = ?
			WHERE id = ? AND status = ?
		`, StatusAccepted, nowStr, invite.ID, StatusPending)
		if err != nil {
			return models.Invite{}, false, utils.ErrorHandler(err, "failed to mark invite accepted")
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return models.Invite{}, false, utils.ErrorHandler(err, "failed to mark invite accepted")
		}
		if rows == 0 {
			// Lost the race to a concurrent claim.
			return models.Invite{}, false, ErrAlreadyAccepted
		}

		invite.Status = StatusAccepted
		invite.UpdatedAt = sql.NullString{String: nowStr, Valid: true}
	}

	newAcceptance, err := s.recordAcceptance(ctx, invite.ID, studentID, nowStr)
	if err != nil {
		return models.Invite{}, false, err
	}

	return invite, newAcceptance, nil
}

func (s *Service) recordAcceptance(ctx context.Context, inviteID, studentID int, nowStr string) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM invite_acceptances WHERE invite_id = ? AND student_id = ?
		)
	`, inviteID, studentID).Scan(&exists)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check invite acceptance")
	}
	if exists {
		return false, nil
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO invite_acceptances (invite_id, student_id, accepted_at)
		VALUES (?, ?, ?)
	`, inviteID, studentID, nowStr)
	if err != nil {
		if isDuplicateErr(err) {
			return false, nil
		}
		return false, utils.ErrorHandler(err, "failed to record invite acceptance")
	}

	return true, nil
}

// ListByIssuer returns a page of a professor's invites, with expiry derived
// per row. Tokens are stored hashed and are never listed back.
func (s *Service) ListByIssuer(ctx context.Context, issuerID, page, limit int, sortBy, sortOrder string) ([]models.Invite, error) {
	sortableColumns := map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"expires_at": "expires_at",
		"status":     "status",
		"kind":       "kind",
	}

	column, ok := sortableColumns[sortBy]
	if !ok {
		column = "created_at"
	}

	order := "DESC"
	if sortOrder == "asc" {
		order = "ASC"
	}

	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT id, issuer_id, kind, status, expires_at, created_at, updated_at
		FROM invites
		WHERE issuer_id = ?
		ORDER BY %s %s
		LIMIT ? OFFSET ?
	`, column, order)

	rows, err := s.q.QueryContext(ctx, query, issuerID, limit, offset)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list invites")
	}
	defer rows.Close()

	now := time.Now()
	invites := make([]models.Invite, 0)
	for rows.Next() {
		var invite models.Invite
		err := rows.Scan(
			&invite.ID, &invite.IssuerID, &invite.Kind, &invite.Status,
			&invite.ExpiresAt, &invite.CreatedAt, &invite.UpdatedAt,
		)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan invite")
		}
		if invite.Status == StatusPending && expired(invite.ExpiresAt, now) {
			invite.Status = StatusExpired
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read invites")
	}

	return invites, nil
}

// Stats aggregates a professor's invites. The acceptance rate is the share of
// invites that have at least one acceptance.
func (s *Service) Stats(ctx context.Context, issuerID int) (models.InviteStats, error) {
	nowStr := time.Now().UTC().Format(sqlTimeFormat)

	var (
		total    int
		accepted sql.NullInt64
		pending  sql.NullInt64
		exp      sql.NullInt64
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'pending' AND (expires_at IS NULL OR expires_at > ?) THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'expired' OR (status = 'pending' AND expires_at IS NOT NULL AND expires_at <= ?) THEN 1 ELSE 0 END)
		FROM invites
		WHERE issuer_id = ?
	`, nowStr, nowStr, issuerID).Scan(&total, &accepted, &pending, &exp)
	if err != nil {
		return models.InviteStats{}, utils.ErrorHandler(err, "failed to aggregate invites")
	}

	var acceptances, acceptedInvites int
	err = s.q.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT a.invite_id)
		FROM invite_acceptances a
		JOIN invites i ON i.id = a.invite_id
		WHERE i.issuer_id = ?
	`, issuerID).Scan(&acceptances, &acceptedInvites)
	if err != nil {
		return models.InviteStats{}, utils.ErrorHandler(err, "failed to aggregate acceptances")
	}

	rate := decimal.Zero
	if total > 0 {
		rate = decimal.NewFromInt(int64(acceptedInvites)).
			Div(decimal.NewFromInt(int64(total))).
			Round(4)
	}

	return models.InviteStats{
		TotalInvites:    total,
		AcceptedInvites: int(accepted.Int64),
		PendingInvites:  int(pending.Int64),
		ExpiredInvites:  int(exp.Int64),
		Acceptances:     acceptances,
		AcceptanceRate:  rate,
	}, nil
}

func expired(expiresAt sql.NullString, now time.Time) bool {
	if !expiresAt.Valid {
		return false
	}

	t, err := time.ParseInLocation(sqlTimeFormat, expiresAt.String, time.UTC)
	if err != nil {
		utils.Logger.Errorf("unparseable expires_at %q: %v", expiresAt.String, err)
		return false
	}

	return !t.After(now.UTC())
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
