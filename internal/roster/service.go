package roster

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/models"
	"studyhive/pkg/utils"
)

const sqlTimeFormat = "2006-01-02 15:04:05"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Service maintains the class ↔ student membership relation.
type Service struct {
	q   DBTX
	dir *directory.Service
}

func New(q DBTX) *Service {
	return &Service{q: q, dir: directory.New(q)}
}

// Add enrolls a student into a class. Adding an already-present pair is a
// no-op success; the returned flag reports whether a new row was created.
func (s *Service) Add(ctx context.Context, classID, studentID int) (bool, error) {
	exists, err := s.dir.ClassExists(ctx, classID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, directory.ErrClassNotFound
	}

	var present bool
	err = s.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM class_members WHERE class_id = ? AND student_id = ?
		)
	`, classID, studentID).Scan(&present)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to check class membership")
	}
	if present {
		return false, nil
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO class_members (class_id, student_id, added_at)
		VALUES (?, ?, ?)
	`, classID, studentID, time.Now().UTC().Format(sqlTimeFormat))
	if err != nil {
		// A concurrent add of the same pair landed first; same outcome.
		if isDuplicateErr(err) {
			return false, nil
		}
		return false, utils.ErrorHandler(err, "failed to add class member")
	}

	return true, nil
}

// Remove drops a student from a class. Absence is not an error.
func (s *Service) Remove(ctx context.Context, classID, studentID int) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM class_members WHERE class_id = ? AND student_id = ?
	`, classID, studentID)
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to remove class member")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, utils.ErrorHandler(err, "failed to remove class member")
	}

	return rows > 0, nil
}

// List returns the current class roster ordered by when each student joined.
func (s *Service) List(ctx context.Context, classID int) ([]models.RosterStudent, error) {
	exists, err := s.dir.ClassExists(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, directory.ErrClassNotFound
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT cm.student_id, u.first_name, u.last_name, u.username, u.email, cm.added_at
		FROM class_members cm
		JOIN users u ON u.id = cm.student_id
		WHERE cm.class_id = ?
		ORDER BY cm.added_at ASC, cm.id ASC
	`, classID)
	if err != nil {
		return nil, utils.ErrorHandler(err, "failed to list class members")
	}
	defer rows.Close()

	students := make([]models.RosterStudent, 0)
	for rows.Next() {
		var (
			student models.RosterStudent
			addedAt sql.NullString
		)
		err := rows.Scan(&student.StudentID, &student.FirstName, &student.LastName, &student.Username, &student.Email, &addedAt)
		if err != nil {
			return nil, utils.ErrorHandler(err, "failed to scan class member")
		}
		student.AddedAt = addedAt.String
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrorHandler(err, "failed to read class members")
	}

	return students, nil
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
