package enrollment

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/invites"
	"studyhive/internal/models"
	"studyhive/internal/roster"
	"studyhive/pkg/utils"
)

const sqlTimeFormat = "2006-01-02 15:04:05"

// Orchestrator composes the invite accept transition with its enrollment side
// effect. Both writes run in one transaction: an invite is never marked
// accepted without its membership (or recruitment link) write, and vice versa.
type Orchestrator struct {
	db *sql.DB
}

func New(db *sql.DB) *Orchestrator {
	return &Orchestrator{db: db}
}

// AcceptInvite claims the token for the student and performs the resulting
// write: a roster membership when the issuer has an active class, otherwise a
// professor-student recruitment link.
func (o *Orchestrator) AcceptInvite(ctx context.Context, token string, studentID int) (models.EnrollmentOutcome, error) {
	exists, err := directory.New(o.db).StudentExists(ctx, studentID)
	if err != nil {
		return models.EnrollmentOutcome{}, err
	}
	if !exists {
		return models.EnrollmentOutcome{}, directory.ErrUserNotFound
	}

	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return models.EnrollmentOutcome{}, utils.ErrorHandler(err, "failed to start transaction")
	}
	defer tx.Rollback()

	invite, newAcceptance, err := invites.New(tx).Claim(ctx, token, studentID)
	if err != nil {
		return models.EnrollmentOutcome{}, err
	}

	outcome := models.EnrollmentOutcome{InviteKind: invite.Kind, IssuerID: invite.IssuerID}

	classID, scoped, err := directory.New(tx).ResolveClassForInvite(ctx, invite.IssuerID)
	if err != nil {
		return models.EnrollmentOutcome{}, err
	}

	if scoped {
		created, err := roster.New(tx).Add(ctx, classID, studentID)
		if err != nil {
			return models.EnrollmentOutcome{}, err
		}
		outcome.ClassScoped = true
		outcome.ClassID = classID
		outcome.MembershipCreated = created
		outcome.AlreadyEnrolled = !created
	} else {
		linked, err := o.linkRecruit(ctx, tx, invite.IssuerID, studentID)
		if err != nil {
			return models.EnrollmentOutcome{}, err
		}
		outcome.AlreadyEnrolled = !linked && !newAcceptance
	}

	if err := tx.Commit(); err != nil {
		return models.EnrollmentOutcome{}, utils.ErrorHandler(err, "failed to commit enrollment")
	}

	return outcome, nil
}

// linkRecruit records the durable professor-student relationship created by a
// recruitment invite. The pair is unique; re-linking is a no-op.
func (o *Orchestrator) linkRecruit(ctx context.Context, tx *sql.Tx, professorID, studentID int) (bool, error) {
	var present bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM professor_students WHERE professor_id = ? AND student_id = ?
		)
	`, professorID, studentID).Scan(&present)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check recruitment link")
	}
	if present {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO professor_students (professor_id, student_id, linked_at)
		VALUES (?, ?, ?)
	`, professorID, studentID, time.Now().UTC().Format(sqlTimeFormat))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return false, nil
		}
		return false, utils.ErrorHandler(err, "failed to create recruitment link")
	}

	return true, nil
}

// ListAcceptedStudents returns every student who accepted one of the
// professor's invites, newest acceptance first.
func (o *Orchestrator) ListAcceptedStudents(ctx context.Context, issuerID int) ([]models.AcceptedStudent, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT a.student_id, u.first_name, u.last_name, u.username, u.email, i.kind, a.accepted_at
		FROM invite_acceptances a
		JOIN invites i ON i.id = a.invite_id
		JOIN users u ON u.id = a.student_id
		WHERE i.issuer_id = ?
		ORDER BY a.accepted_at DESC, a.id DESC
	`, issuerID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list accepted students")
	}
	defer rows.Close()

	students := make([]models.AcceptedStudent, 0)
	for rows.Next() {
		var (
			student    models.AcceptedStudent
			acceptedAt sql.NullString
		)
		err := rows.Scan(&student.StudentID, &student.FirstName, &student.LastName, &student.Username, &student.Email, &student.InviteKind, &acceptedAt)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan accepted student")
		}
		student.AcceptedAt = acceptedAt.String
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read accepted students")
	}

	return students, nil
}
