// Package engine implements the availability and booking conflict resolution
// rules for conference rooms: who may book a room, when the room's weekly
// schedule allows it, which existing bookings block it, and which status
// transitions a booking may take. The package is pure; persistence, locking
// and transport live with the callers.
package engine

// Reason is a machine-readable subcode explaining a denial.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNotSameOrg       Reason = "NOT_SAME_ORG"
	ReasonNotInAllowlist   Reason = "NOT_IN_ALLOWLIST"
	ReasonRoomInactive     Reason = "ROOM_INACTIVE"
	ReasonNoSchedule       Reason = "NO_SCHEDULE"
	ReasonOutsideWindow    Reason = "OUTSIDE_WINDOW"
	ReasonBlackoutOverride Reason = "BLACKOUT_OVERRIDE"
	ReasonConflict         Reason = "CONFLICT"
)

// Decision is the structured result of an engine check.
type Decision struct {
	Allowed               bool
	Reason                Reason
	ConflictingBookingIDs []string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

func DenyConflict(conflictingIDs []string) Decision {
	return Decision{Reason: ReasonConflict, ConflictingBookingIDs: conflictingIDs}
}

// CheckRequest runs the full admission pipeline for a booking request:
// room active flag, access control, weekly availability, then conflicts
// against existing blocking bookings. excludeID skips one booking in the
// conflict check, for edits re-validating against siblings only.
func CheckRequest(room RoomAccess, requesterOrgID string, windows []Window, existing []Slot, ival Interval, excludeID string) Decision {
	if !room.Active {
		return Deny(ReasonRoomInactive)
	}

	if decision := EvaluateAccess(room, requesterOrgID); !decision.Allowed {
		return decision
	}

	if decision := ResolveAvailability(windows, ival); !decision.Allowed {
		return decision
	}

	if conflicting := FindConflicts(existing, ival, excludeID); len(conflicting) > 0 {
		return DenyConflict(conflicting)
	}

	return Allow()
}
