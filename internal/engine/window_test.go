package engine_test

import (
	"testing"
	"time"

	"atrium/internal/engine"

	"github.com/stretchr/testify/assert"
)

func interval(t *testing.T, start, end string) engine.Interval {
	t.Helper()

	s, err := time.Parse(time.RFC3339, start)
	assert.NoError(t, err)

	e, err := time.Parse(time.RFC3339, end)
	assert.NoError(t, err)

	return engine.Interval{Start: s, End: e}
}

func TestInterval_Overlaps(t *testing.T) {
	// 2026-03-02 is a Monday.
	tests := []struct {
		name string
		a    engine.Interval
		b    engine.Interval
		want bool
	}{
		{
			name: "identical intervals overlap",
			a:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			b:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			want: true,
		},
		{
			name: "partial overlap",
			a:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			b:    interval(t, "2026-03-02T10:30:00Z", "2026-03-02T11:30:00Z"),
			want: true,
		},
		{
			name: "containment overlaps",
			a:    interval(t, "2026-03-02T09:00:00Z", "2026-03-02T12:00:00Z"),
			b:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			b:    interval(t, "2026-03-02T11:00:00Z", "2026-03-02T12:00:00Z"),
			want: false,
		},
		{
			name: "disjoint intervals",
			a:    interval(t, "2026-03-02T08:00:00Z", "2026-03-02T09:00:00Z"),
			b:    interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:00:00Z"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_DaySegments(t *testing.T) {
	t.Run("single day interval yields one segment", func(t *testing.T) {
		segments := interval(t, "2026-03-02T10:00:00Z", "2026-03-02T11:30:00Z").DaySegments()

		assert.Equal(t, []engine.DaySegment{
			{Day: time.Monday, Start: engine.Minutes(10, 0), End: engine.Minutes(11, 30)},
		}, segments)
	})

	t.Run("interval crossing midnight splits per day", func(t *testing.T) {
		segments := interval(t, "2026-03-02T22:00:00Z", "2026-03-03T02:00:00Z").DaySegments()

		assert.Equal(t, []engine.DaySegment{
			{Day: time.Monday, Start: engine.Minutes(22, 0), End: engine.Minutes(24, 0)},
			{Day: time.Tuesday, Start: 0, End: engine.Minutes(2, 0)},
		}, segments)
	})

	t.Run("interval ending exactly at midnight stays on one day", func(t *testing.T) {
		segments := interval(t, "2026-03-02T22:00:00Z", "2026-03-03T00:00:00Z").DaySegments()

		assert.Equal(t, []engine.DaySegment{
			{Day: time.Monday, Start: engine.Minutes(22, 0), End: engine.Minutes(24, 0)},
		}, segments)
	})
}

func TestWindow_ContainsSegment(t *testing.T) {
	window := engine.Window{Day: time.Monday, Start: engine.Minutes(9, 0), End: engine.Minutes(17, 0), Available: true}

	tests := []struct {
		name string
		seg  engine.DaySegment
		want bool
	}{
		{
			name: "fully inside",
			seg:  engine.DaySegment{Day: time.Monday, Start: engine.Minutes(10, 0), End: engine.Minutes(11, 0)},
			want: true,
		},
		{
			name: "exact bounds",
			seg:  engine.DaySegment{Day: time.Monday, Start: engine.Minutes(9, 0), End: engine.Minutes(17, 0)},
			want: true,
		},
		{
			name: "spills past the end",
			seg:  engine.DaySegment{Day: time.Monday, Start: engine.Minutes(16, 0), End: engine.Minutes(18, 0)},
			want: false,
		},
		{
			name: "wrong day",
			seg:  engine.DaySegment{Day: time.Tuesday, Start: engine.Minutes(10, 0), End: engine.Minutes(11, 0)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.ContainsSegment(tt.seg))
		})
	}
}
