package model

import (
	"atrium/internal/engine"
	"atrium/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldOrgID       = "org_id"
	FieldName        = "name"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldAccessLevel = "access_level"
	FieldActive      = "active"
)

type Room struct {
	ID          string `db:"id"`
	OrgID       string `db:"org_id"`
	Name        string `db:"name"`
	Location    string `db:"location"`
	Capacity    int    `db:"capacity"`
	AccessLevel string `db:"access_level"`
	Active      bool   `db:"active"`
	model.Metadata
}

// Access projects the room plus its allowlist into the form the
// decision pipeline consumes.
func (r Room) Access(allowedOrgIDs []string) engine.RoomAccess {
	return engine.RoomAccess{
		OwnerOrgID:    r.OrgID,
		Level:         engine.AccessLevel(r.AccessLevel),
		AllowedOrgIDs: allowedOrgIDs,
		Active:        r.Active,
	}
}
