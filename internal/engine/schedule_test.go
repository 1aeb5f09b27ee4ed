package engine_test

import (
	"testing"
	"time"

	"atrium/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestResolveAvailability(t *testing.T) {
	// Room open Monday 09:00-17:00 with a 12:00-13:00 blackout.
	windows := []engine.Window{
		{Day: time.Monday, Start: engine.Minutes(9, 0), End: engine.Minutes(17, 0), Available: true},
		{Day: time.Monday, Start: engine.Minutes(12, 0), End: engine.Minutes(13, 0), Available: false},
	}

	tests := []struct {
		name        string
		ival        engine.Interval
		wantAllowed bool
		wantReason  engine.Reason
	}{
		{
			name:        "inside the window",
			ival:        interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			wantAllowed: true,
		},
		{
			name:       "inside the blackout",
			ival:       interval(t, "2026-03-02T12:30:00Z", "2026-03-02T13:00:00Z"),
			wantReason: engine.ReasonBlackoutOverride,
		},
		{
			name:       "straddling the blackout",
			ival:       interval(t, "2026-03-02T11:30:00Z", "2026-03-02T13:30:00Z"),
			wantReason: engine.ReasonBlackoutOverride,
		},
		{
			name:       "spilling past the window",
			ival:       interval(t, "2026-03-02T16:00:00Z", "2026-03-02T18:00:00Z"),
			wantReason: engine.ReasonOutsideWindow,
		},
		{
			name:       "day without schedule",
			ival:       interval(t, "2026-03-03T10:00:00Z", "2026-03-03T11:00:00Z"),
			wantReason: engine.ReasonNoSchedule,
		},
		{
			name:       "crossing midnight into an unscheduled day",
			ival:       interval(t, "2026-03-02T16:00:00Z", "2026-03-03T01:00:00Z"),
			wantReason: engine.ReasonOutsideWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := engine.ResolveAvailability(windows, tt.ival)

			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}

	t.Run("blackout ending where the request starts does not deny", func(t *testing.T) {
		decision := engine.ResolveAvailability(windows, interval(t, "2026-03-02T13:00:00Z", "2026-03-02T14:00:00Z"))

		assert.True(t, decision.Allowed)
	})

	t.Run("no schedule at all is default-deny", func(t *testing.T) {
		decision := engine.ResolveAvailability(nil, interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"))

		assert.False(t, decision.Allowed)
		assert.Equal(t, engine.ReasonNoSchedule, decision.Reason)
	})
}
