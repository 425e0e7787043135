package schedule

import "fmt"

// WorkingHours is the bookable window for one practitioner day. It is plain
// configuration, re-read on every grid computation since it may vary per
// deployment.
type WorkingHours struct {
	Start        string
	End          string
	SlotDuration int
}

func (wh WorkingHours) Validate() error {
	start, err := ToMinutes(wh.Start)
	if err != nil {
		return fmt.Errorf("working hours start: %w", err)
	}
	end, err := ToMinutes(wh.End)
	if err != nil {
		return fmt.Errorf("working hours end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("working hours end %q must be after start %q", wh.End, wh.Start)
	}
	if wh.SlotDuration <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", wh.SlotDuration)
	}
	return nil
}

// SlotStarts generates the candidate slot start times for a day as minutes
// since midnight: strictly increasing from the window start, stepping by the
// slot duration, while the candidate stays below the window end.
func SlotStarts(wh WorkingHours) ([]int, error) {
	if err := wh.Validate(); err != nil {
		return nil, err
	}

	start, _ := ToMinutes(wh.Start)
	end, _ := ToMinutes(wh.End)

	starts := make([]int, 0, (end-start)/wh.SlotDuration)
	for t := start; t < end; t += wh.SlotDuration {
		starts = append(starts, t)
	}
	return starts, nil
}
