package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots("2025-03-10", "1")
	require.Len(t, slots, 12)

	seen := make(map[string]bool)
	for i, s := range slots {
		assert.Equal(t, "2025-03-10", s.Date)
		assert.Equal(t, "1", s.PractitionerID)
		assert.False(t, seen[s.ID], "duplicate slot id %s", s.ID)
		seen[s.ID] = true
		if i > 0 {
			assert.Less(t, slots[i-1].Time, s.Time, "times must be strictly ascending")
		}
	}

	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "9:00 AM", slots[0].DisplayTime)
	assert.Equal(t, "20:00", slots[11].Time)
	assert.Equal(t, "8:00 PM", slots[11].DisplayTime)
}

func TestGenerateSlots_DisplayTimes(t *testing.T) {
	want := map[string]string{
		"10:00": "10:00 AM",
		"11:00": "11:00 AM",
		"12:00": "12:00 PM",
		"13:00": "1:00 PM",
	}
	for _, s := range GenerateSlots("2025-03-10", "1") {
		if label, ok := want[s.Time]; ok {
			assert.Equal(t, label, s.DisplayTime, "display time for %s", s.Time)
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	assert.Equal(t, GenerateSlots("2025-03-10", "1"), GenerateSlots("2025-03-10", "1"))
}

func TestSlotID_Injective(t *testing.T) {
	// Without escaping these two would collide on "a:b:2025-03-10T09:00".
	a := SlotID("a:b", "2025-03-10", "09:00")
	b := SlotID("a", "b:2025-03-10", "09:00")
	assert.NotEqual(t, a, b)

	assert.NotEqual(t,
		SlotID("1", "2025-03-10", "09:00"),
		SlotID("2", "2025-03-10", "09:00"))
	assert.NotEqual(t,
		SlotID("1", "2025-03-10", "09:00"),
		SlotID("1", "2025-03-11", "09:00"))
}

func TestGenerateSlots_MalformedDateStillProducesCatalog(t *testing.T) {
	slots := GenerateSlots("not-a-date", "1")
	assert.Len(t, slots, 12)
}

func TestSlotAt(t *testing.T) {
	s, err := SlotAt("2025-03-10", "1", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00 AM", s.DisplayTime)

	_, err = SlotAt("2025-03-10", "1", "10:30")
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = SlotAt("2025-03-10", "1", "21:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
