package model

import (
	"time"

	"atrium/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldOrgID    = "org_id"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldFullName = "full_name"
	FieldRole     = "role"
	FieldStatus   = "status"

	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

type User struct {
	ID             string     `db:"id"`
	OrgID          string     `db:"org_id"`
	Email          string     `db:"email"`
	Password       string     `db:"password"`
	FullName       string     `db:"full_name"`
	Role           string     `db:"role"`
	Status         string     `db:"status"`
	ApprovedBy     *string    `db:"approved_by"`
	DecidedAt      *time.Time `db:"decided_at"`
	DecisionReason *string    `db:"decision_reason"`
	model.Metadata
}
