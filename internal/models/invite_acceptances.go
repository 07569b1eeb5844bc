package models

import "database/sql"

type InviteAcceptance struct {
	ID         int            `json:"id,omitempty" db:"id,omitempty"`
	InviteID   int            `json:"invite_id,omitempty" db:"invite_id,omitempty"`
	StudentID  int            `json:"student_id,omitempty" db:"student_id,omitempty"`
	AcceptedAt sql.NullString `json:"accepted_at,omitempty" db:"accepted_at,omitempty"`
}

// AcceptedStudent is a student joined through an acceptance of one of a
// professor's invites.
type AcceptedStudent struct {
	StudentID  int    `json:"student_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	InviteKind string `json:"invite_kind"`
	AcceptedAt string `json:"accepted_at,omitempty"`
}

// EnrollmentOutcome describes what accepting an invite produced.
type EnrollmentOutcome struct {
	InviteKind        string `json:"invite_kind"`
	IssuerID          int    `json:"issuer_id"`
	ClassID           int    `json:"class_id,omitempty"`
	ClassScoped       bool   `json:"class_scoped"`
	MembershipCreated bool   `json:"membership_created"`
	AlreadyEnrolled   bool   `json:"already_enrolled"`
}
