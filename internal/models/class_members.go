package models

import "database/sql"

type ClassMember struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	ClassID   int            `json:"class_id,omitempty" db:"class_id,omitempty"`
	StudentID int            `json:"student_id,omitempty" db:"student_id,omitempty"`
	AddedAt   sql.NullString `json:"added_at,omitempty" db:"added_at,omitempty"`
}

// RosterStudent is a class member joined with the student's directory entry.
type RosterStudent struct {
	StudentID int    `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AddedAt   string `json:"added_at,omitempty"`
}
