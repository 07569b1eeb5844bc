package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Invite struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	Token     string         `json:"token,omitempty"`
	IssuerID  int            `json:"issuer_id,omitempty" db:"issuer_id,omitempty"`
	Kind      string         `json:"kind,omitempty" db:"kind,omitempty"`
	Status    string         `json:"status,omitempty" db:"status,omitempty"`
	ExpiresAt sql.NullString `json:"expires_at,omitempty" db:"expires_at,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// InviteView is the public projection returned to a token holder. It never
// carries the internal row id.
type InviteView struct {
	Token      string `json:"token"`
	IssuerName string `json:"issuer_name"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type InviteStats struct {
	TotalInvites    int             `json:"total_invites"`
	AcceptedInvites int             `json:"accepted_invites"`
	PendingInvites  int             `json:"pending_invites"`
	ExpiredInvites  int             `json:"expired_invites"`
	Acceptances     int             `json:"acceptances"`
	AcceptanceRate  decimal.Decimal `json:"acceptance_rate"`
}
