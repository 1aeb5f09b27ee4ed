package model

import (
	"time"

	"atrium/internal/engine"
	"atrium/shared/model"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldOrgID     = "org_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldStatus    = "status"
)

type Booking struct {
	ID             string     `db:"id"`
	RoomID         string     `db:"room_id"`
	UserID         string     `db:"user_id"`
	OrgID          string     `db:"org_id"`
	StartTime      time.Time  `db:"start_time"`
	EndTime        time.Time  `db:"end_time"`
	Purpose        string     `db:"purpose"`
	Attendees      int        `db:"attendees"`
	Notes          string     `db:"notes"`
	Status         string     `db:"status"`
	ApproverID     *string    `db:"approver_id"`
	DecidedAt      *time.Time `db:"decided_at"`
	DecisionReason *string    `db:"decision_reason"`
	model.Metadata
}

func (b Booking) Interval() engine.Interval {
	return engine.Interval{Start: b.StartTime, End: b.EndTime}
}

func (b Booking) Slot() engine.Slot {
	return engine.Slot{
		BookingID: b.ID,
		Interval:  b.Interval(),
		Status:    engine.Status(b.Status),
	}
}

// Slots converts bookings into conflict-check slots.
func Slots(bookings []Booking) []engine.Slot {
	slots := make([]engine.Slot, 0, len(bookings))
	for _, booking := range bookings {
		slots = append(slots, booking.Slot())
	}

	return slots
}
