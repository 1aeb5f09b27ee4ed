package engine

// ResolveAvailability decides whether the requested interval falls inside the
// room's weekly schedule. The interval is split into per-day segments; every
// segment must pass on its own day. A day with no entries at all is fully
// unavailable. A blackout entry overlapping the segment denies it regardless
// of any allowance, and otherwise some available entry must contain the whole
// segment.
func ResolveAvailability(windows []Window, ival Interval) Decision {
	for _, seg := range ival.DaySegments() {
		var dayWindows []Window

		for _, w := range windows {
			if w.Day == seg.Day {
				dayWindows = append(dayWindows, w)
			}
		}

		if len(dayWindows) == 0 {
			return Deny(ReasonNoSchedule)
		}

		for _, w := range dayWindows {
			if !w.Available && w.OverlapsSegment(seg) {
				return Deny(ReasonBlackoutOverride)
			}
		}

		contained := false

		for _, w := range dayWindows {
			if w.Available && w.ContainsSegment(seg) {
				contained = true

				break
			}
		}

		if !contained {
			return Deny(ReasonOutsideWindow)
		}
	}

	return Allow()
}
