package engine

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}

	return false
}

// Event drives a booking from one status to the next.
type Event string

const (
	EventApprove  Event = "approve"
	EventReject   Event = "reject"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventExtend   Event = "extend"
)

// transitions is the full set of legal status transitions. Anything absent
// here is an invalid transition.
var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventApprove: StatusApproved,
		EventReject:  StatusRejected,
		EventCancel:  StatusCancelled,
	},
	StatusApproved: {
		EventCancel:   StatusCancelled,
		EventComplete: StatusCompleted,
		EventExtend:   StatusApproved,
	},
}

// Next returns the status the event leads to from the given status, and
// whether the transition is legal.
func Next(from Status, event Event) (Status, bool) {
	to, ok := transitions[from][event]

	return to, ok
}

// Terminal reports whether no event can move the booking further.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}
