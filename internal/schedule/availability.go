package schedule

// TimeSlot is one entry of a day's availability grid. AppointmentID carries
// the first conflicting booking when the slot is occupied, for diagnostic
// display.
type TimeSlot struct {
	Time          string `json:"time"`
	Available     bool   `json:"available"`
	AppointmentID string `json:"appointmentId,omitempty"`
}

// BusyInterval is an occupying appointment projected onto minutes since
// midnight. End is Start + duration un-wrapped, so a booking running past
// midnight still blocks the evening slots it covers.
type BusyInterval struct {
	AppointmentID string
	Start         int
	End           int
}

// ComputeSlots marks each candidate slot of the working-hours grid available
// or occupied against the given busy intervals.
//
// The conflict test checks the slot's own fixed-duration window, not the full
// duration of any requested booking. A booking spanning several slots must
// verify each slot it covers independently; this per-slot check is a known
// simplification kept for compatibility with the source system.
func ComputeSlots(wh WorkingHours, busy []BusyInterval) ([]TimeSlot, error) {
	starts, err := SlotStarts(wh)
	if err != nil {
		return nil, err
	}

	slots := make([]TimeSlot, 0, len(starts))
	for _, t := range starts {
		hhmm, err := FormatMinutes(t)
		if err != nil {
			return nil, err
		}

		slot := TimeSlot{Time: hhmm, Available: true}
		for _, b := range busy {
			if Overlaps(t, t+wh.SlotDuration, b.Start, b.End) {
				slot.Available = false
				slot.AppointmentID = b.AppointmentID
				break
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
