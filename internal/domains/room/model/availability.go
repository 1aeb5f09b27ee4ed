package model

import (
	"fmt"
	"time"

	"atrium/internal/engine"
	"atrium/shared/constant"
)

const (
	AvailabilityTableName  = "room_availability"
	AvailabilityEntityName = "room_availability"

	FieldAvailabilityID     = "id"
	FieldAvailabilityRoomID = "room_id"
	FieldDayOfWeek          = "day_of_week"
	FieldStartTime          = "start_time"
	FieldEndTime            = "end_time"
	FieldAvailable          = "available"
)

// Availability is one weekly recurring schedule entry. Times are
// stored as "15:04" strings, minute granularity. Available=false rows
// are blackouts.
type Availability struct {
	ID        string `db:"id"`
	RoomID    string `db:"room_id"`
	DayOfWeek int    `db:"day_of_week"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Available bool   `db:"available"`
}

func (a Availability) Window() (engine.Window, error) {
	start, err := time.Parse(constant.TimeOfDayFormat, a.StartTime)
	if err != nil {
		return engine.Window{}, fmt.Errorf("invalid start time %q: %w", a.StartTime, err)
	}

	end, err := time.Parse(constant.TimeOfDayFormat, a.EndTime)
	if err != nil {
		return engine.Window{}, fmt.Errorf("invalid end time %q: %w", a.EndTime, err)
	}

	return engine.Window{
		Day:       time.Weekday(a.DayOfWeek),
		Start:     engine.Minutes(start.Hour(), start.Minute()),
		End:       engine.Minutes(end.Hour(), end.Minute()),
		Available: a.Available,
	}, nil
}

// Windows converts schedule rows into decision windows, failing on the
// first malformed row.
func Windows(entries []Availability) ([]engine.Window, error) {
	windows := make([]engine.Window, 0, len(entries))

	for _, entry := range entries {
		window, err := entry.Window()
		if err != nil {
			return nil, err
		}

		windows = append(windows, window)
	}

	return windows, nil
}
