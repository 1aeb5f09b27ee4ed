package model

import "time"

const (
	TableName  = "audit_logs"
	EntityName = "audit"

	FieldID       = "id"
	FieldActorID  = "actor_id"
	FieldAction   = "action"
	FieldEntity   = "entity"
	FieldEntityID = "entity_id"

	EntityBooking = "booking"
	EntityRoom    = "room"
	EntityUser    = "user"

	ActionCreate     = "create"
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionCancel     = "cancel"
	ActionComplete   = "complete"
	ActionExtend     = "extend"
	ActionDeactivate = "deactivate"
)

// Entry is append-only. Rows are never updated or deleted.
type Entry struct {
	ID        string    `db:"id"`
	ActorID   string    `db:"actor_id"`
	ActorRole string    `db:"actor_role"`
	Action    string    `db:"action"`
	Entity    string    `db:"entity"`
	EntityID  string    `db:"entity_id"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}
