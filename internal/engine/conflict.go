package engine

// Slot is an existing booking reduced to what conflict detection needs.
type Slot struct {
	BookingID string
	Interval  Interval
	Status    Status
}

// Blocking reports whether a booking in this status occupies its slot.
// Only pending and approved bookings block; rejected, cancelled and
// completed bookings never do.
func Blocking(status Status) bool {
	return status == StatusPending || status == StatusApproved
}

// FindConflicts returns the ids of every blocking booking whose interval
// overlaps the requested one. excludeID skips one booking, so an edit or
// extension is not reported as conflicting with itself.
func FindConflicts(existing []Slot, ival Interval, excludeID string) []string {
	var conflicting []string

	for _, slot := range existing {
		if slot.BookingID == excludeID {
			continue
		}

		if !Blocking(slot.Status) {
			continue
		}

		if slot.Interval.Overlaps(ival) {
			conflicting = append(conflicting, slot.BookingID)
		}
	}

	return conflicting
}
