package engine

import "slices"

// AccessLevel classifies which organizations may book a room.
type AccessLevel string

const (
	// AccessLevelPrivate admits only the room's owning organization.
	AccessLevelPrivate AccessLevel = "private"
	// AccessLevelPublic admits any organization.
	AccessLevelPublic AccessLevel = "public"
	// AccessLevelOrgOnly admits organizations on the room's allowlist.
	AccessLevelOrgOnly AccessLevel = "org_only"
)

func (l AccessLevel) Valid() bool {
	switch l {
	case AccessLevelPrivate, AccessLevelPublic, AccessLevelOrgOnly:
		return true
	}

	return false
}

// RoomAccess is the slice of room configuration the engine needs for
// admission: identifier-based, no live references into the persistence layer.
type RoomAccess struct {
	OwnerOrgID    string
	Level         AccessLevel
	AllowedOrgIDs []string
	Active        bool
}

// EvaluateAccess decides whether the requesting organization may book the
// room. The owning organization is implicitly allowed on ORG_ONLY rooms even
// when absent from the allowlist.
func EvaluateAccess(room RoomAccess, requesterOrgID string) Decision {
	switch room.Level {
	case AccessLevelPublic:
		return Allow()
	case AccessLevelPrivate:
		if requesterOrgID == room.OwnerOrgID {
			return Allow()
		}

		return Deny(ReasonNotSameOrg)
	case AccessLevelOrgOnly:
		if requesterOrgID == room.OwnerOrgID || slices.Contains(room.AllowedOrgIDs, requesterOrgID) {
			return Allow()
		}

		return Deny(ReasonNotInAllowlist)
	}

	return Deny(ReasonNotInAllowlist)
}
