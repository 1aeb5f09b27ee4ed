package engine

import (
	"time"
)

const minutesPerDay = 24 * 60

// MinuteOfDay is a time of day expressed as minutes since midnight, 0..1440.
// Availability windows and day segments are minute-granular; seconds on
// booking timestamps are ignored for schedule matching.
type MinuteOfDay int

// Minutes converts an "15:04" style hour/minute pair into a MinuteOfDay.
func Minutes(hour, minute int) MinuteOfDay {
	return MinuteOfDay(hour*60 + minute)
}

// Interval is an absolute booking interval. Intervals are half-open:
// the start is included, the end is not.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two intervals overlap under half-open semantics.
// Touching endpoints (one interval ending exactly where the other starts)
// do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// DaySegment is the projection of an interval onto a single weekday:
// the day plus the minute-of-day span the interval covers on it.
type DaySegment struct {
	Day   time.Weekday
	Start MinuteOfDay
	End   MinuteOfDay
}

// DaySegments splits the interval at midnight boundaries. An interval that
// stays within one calendar day yields one segment; an interval crossing
// midnight yields one segment per day, each checked independently against
// that day's schedule. A segment running to the end of its day ends at
// minute 1440.
func (i Interval) DaySegments() []DaySegment {
	segments := []DaySegment{}

	cur := i.Start
	for cur.Before(i.End) {
		nextMidnight := startOfDay(cur).AddDate(0, 0, 1)

		end := MinuteOfDay(minutesPerDay)
		if i.End.Before(nextMidnight) {
			end = minutesIntoDay(i.End)
		}

		segments = append(segments, DaySegment{
			Day:   cur.Weekday(),
			Start: minutesIntoDay(cur),
			End:   end,
		})

		cur = nextMidnight
	}

	return segments
}

// Window is a weekly recurring availability entry for a room. Available=false
// marks an explicit blackout that overrides any broader allowance on the
// same day.
type Window struct {
	Day       time.Weekday
	Start     MinuteOfDay
	End       MinuteOfDay
	Available bool
}

// Valid reports whether the window has positive length within one day.
func (w Window) Valid() bool {
	return w.Start < w.End && w.Start >= 0 && w.End <= minutesPerDay
}

// ContainsSegment reports whether the window's day matches and the segment's
// span lies entirely inside the window.
func (w Window) ContainsSegment(seg DaySegment) bool {
	return w.Day == seg.Day && w.Start <= seg.Start && seg.End <= w.End
}

// OverlapsSegment reports whether the window's day matches and the spans
// overlap under half-open semantics.
func (w Window) OverlapsSegment(seg DaySegment) bool {
	return w.Day == seg.Day && w.Start < seg.End && seg.Start < w.End
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func minutesIntoDay(t time.Time) MinuteOfDay {
	return Minutes(t.Hour(), t.Minute())
}
