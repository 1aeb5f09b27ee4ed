package dto

import (
	"time"

	"atrium/internal/domains/booking/model"
	"atrium/internal/engine"
	"atrium/shared"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	gModel "atrium/shared/model"
	"atrium/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
	Purpose   string `json:"purpose"    validate:"required,max=250"`
	Attendees int    `json:"attendees"  validate:"omitempty,min=1"`
	Notes     string `json:"notes"      validate:"omitempty,max=1000"`
}

func (c *CreateBookingRequest) Interval() (engine.Interval, error) {
	return parseInterval(c.StartTime, c.EndTime)
}

func (c *CreateBookingRequest) ToModel(userID, orgID string, ival engine.Interval) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		UserID:    userID,
		OrgID:     orgID,
		StartTime: ival.Start,
		EndTime:   ival.End,
		Purpose:   c.Purpose,
		Attendees: c.Attendees,
		Notes:     c.Notes,
		Status:    string(engine.StatusPending),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type CheckBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
}

func (c *CheckBookingRequest) Interval() (engine.Interval, error) {
	return parseInterval(c.StartTime, c.EndTime)
}

type ExtendBookingRequest struct {
	NewEndTime string `json:"new_end_time" validate:"required"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type CheckResponse struct {
	Allowed               bool     `json:"allowed"`
	Reason                string   `json:"reason,omitempty"`
	ConflictingBookingIDs []string `json:"conflicting_booking_ids,omitempty"`
}

func (r *CheckResponse) FromDecision(decision engine.Decision) {
	r.Allowed = decision.Allowed
	r.Reason = string(decision.Reason)
	r.ConflictingBookingIDs = decision.ConflictingBookingIDs
}

type BookingResponse struct {
	ID             string  `json:"id"`
	RoomID         string  `json:"room_id"`
	UserID         string  `json:"user_id"`
	OrgID          string  `json:"org_id"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Purpose        string  `json:"purpose"`
	Attendees      int     `json:"attendees,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	Status         string  `json:"status"`
	ApproverID     *string `json:"approver_id,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	DecisionReason *string `json:"decision_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.OrgID = model.OrgID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Purpose = model.Purpose
	r.Attendees = model.Attendees
	r.Notes = model.Notes
	r.Status = model.Status
	r.ApproverID = model.ApproverID
	r.DecisionReason = model.DecisionReason

	if model.DecidedAt != nil {
		decidedAt := timezone.Format(*model.DecidedAt, constant.DateFormat)
		r.DecidedAt = &decidedAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the notification trigger published to Kafka after a
// state change commits. Delivery to end users is downstream's concern.
type BookingEvent struct {
	EventType  string `json:"event_type"`
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	UserID     string `json:"user_id"`
	OrgID      string `json:"org_id"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	OccurredAt string `json:"occurred_at"`
}

func parseInterval(start, end string) (engine.Interval, error) {
	startTime, err := time.Parse(constant.DateFormat, start)
	if err != nil {
		return engine.Interval{}, err
	}

	endTime, err := time.Parse(constant.DateFormat, end)
	if err != nil {
		return engine.Interval{}, err
	}

	return engine.Interval{
		Start: timezone.ToAppTime(startTime),
		End:   timezone.ToAppTime(endTime),
	}, nil
}
