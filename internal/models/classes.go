package models

import "database/sql"

type Class struct {
	ID          int            `json:"id,omitempty" db:"id,omitempty"`
	Name        string         `json:"name,omitempty" db:"name,omitempty"`
	Subject     string         `json:"subject,omitempty" db:"subject,omitempty"`
	Description string         `json:"description,omitempty" db:"description,omitempty"`
	ProfessorID int            `json:"professor_id,omitempty" db:"professor_id,omitempty"`
	Archived    bool           `json:"archived,omitempty" db:"archived,omitempty"`
	CreatedAt   sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
