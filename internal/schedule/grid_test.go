package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStarts(t *testing.T) {
	wh := WorkingHours{Start: "09:00", End: "18:00", SlotDuration: 30}

	starts, err := SlotStarts(wh)
	require.NoError(t, err)

	// 9 hours at 30-minute granularity
	require.Len(t, starts, 18)
	assert.Equal(t, 540, starts[0])
	assert.Equal(t, 570, starts[1])
	assert.Equal(t, 1050, starts[len(starts)-1]) // 17:30

	for i := 1; i < len(starts); i++ {
		assert.Greater(t, starts[i], starts[i-1])
	}
}

func TestSlotStartsPartialTrailingSlot(t *testing.T) {
	// The last candidate must start strictly before the window end, even if
	// the slot itself would run past it.
	wh := WorkingHours{Start: "09:00", End: "10:15", SlotDuration: 30}

	starts, err := SlotStarts(wh)
	require.NoError(t, err)
	assert.Equal(t, []int{540, 570, 600}, starts)
}

func TestSlotStartsDeterministic(t *testing.T) {
	wh := WorkingHours{Start: "08:30", End: "17:00", SlotDuration: 15}

	first, err := SlotStarts(wh)
	require.NoError(t, err)
	second, err := SlotStarts(wh)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWorkingHoursValidate(t *testing.T) {
	tests := []struct {
		name string
		wh   WorkingHours
	}{
		{name: "bad start", wh: WorkingHours{Start: "9am", End: "18:00", SlotDuration: 30}},
		{name: "bad end", wh: WorkingHours{Start: "09:00", End: "25:00", SlotDuration: 30}},
		{name: "end before start", wh: WorkingHours{Start: "18:00", End: "09:00", SlotDuration: 30}},
		{name: "zero slot duration", wh: WorkingHours{Start: "09:00", End: "18:00", SlotDuration: 0}},
		{name: "negative slot duration", wh: WorkingHours{Start: "09:00", End: "18:00", SlotDuration: -15}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.wh.Validate())
		})
	}

	require.NoError(t, WorkingHours{Start: "09:00", End: "18:00", SlotDuration: 30}.Validate())
}
