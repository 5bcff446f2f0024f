package appointment

// Resolver computes bookable slots as the catalog minus what the ledger holds.
type Resolver struct {
	ledger *Ledger
}

func NewResolver(ledger *Ledger) *Resolver {
	return &Resolver{ledger: ledger}
}

// AvailableSlots keeps catalog order.
func (r *Resolver) AvailableSlots(date, practitionerID string) []Slot {
	booked := r.ledger.BookedSlotIDs(date, practitionerID)

	catalog := GenerateSlots(date, practitionerID)
	out := make([]Slot, 0, len(catalog))
	for _, s := range catalog {
		if _, taken := booked[s.ID]; !taken {
			out = append(out, s)
		}
	}
	return out
}
