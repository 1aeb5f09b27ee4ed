package model

const (
	AllowedOrgTableName  = "room_allowed_orgs"
	AllowedOrgEntityName = "room_allowed_org"

	FieldAllowedOrgID     = "id"
	FieldAllowedOrgRoomID = "room_id"
	FieldAllowedOrgOrgID  = "org_id"
)

// AllowedOrg grants one external organization access to an org_only room.
type AllowedOrg struct {
	ID     string `db:"id"`
	RoomID string `db:"room_id"`
	OrgID  string `db:"org_id"`
}

func OrgIDs(entries []AllowedOrg) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.OrgID)
	}

	return ids
}
