package appointment

import (
	"fmt"
	"net/url"
)

const (
	FirstSlotHour = 9
	LastSlotHour  = 20
	SlotsPerDay   = LastSlotHour - FirstSlotHour + 1
)

// SlotID builds the ledger key for a slot. The practitioner part is escaped so
// it never contains the ':' separator, and the time is always HH:MM, which
// keeps the encoding injective over (practitioner, date, time).
func SlotID(practitionerID, date, hhmm string) string {
	return url.QueryEscape(practitionerID) + ":" + date + "T" + hhmm
}

// GenerateSlots returns the fixed hourly catalog for a day. The date is not
// validated here.
func GenerateSlots(date, practitionerID string) []Slot {
	slots := make([]Slot, 0, SlotsPerDay)
	for hour := FirstSlotHour; hour <= LastSlotHour; hour++ {
		hhmm := fmt.Sprintf("%02d:00", hour)
		slots = append(slots, Slot{
			ID:             SlotID(practitionerID, date, hhmm),
			PractitionerID: practitionerID,
			Date:           date,
			Time:           hhmm,
			DisplayTime:    displayTime(hour),
		})
	}
	return slots
}

// SlotAt looks up one catalog entry by its 24h time.
func SlotAt(date, practitionerID, hhmm string) (Slot, error) {
	for _, s := range GenerateSlots(date, practitionerID) {
		if s.Time == hhmm {
			return s, nil
		}
	}
	return Slot{}, fmt.Errorf("%w: %s at %s", ErrSlotNotFound, date, hhmm)
}

func displayTime(hour int) string {
	h := hour
	if h > 12 {
		h -= 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}
