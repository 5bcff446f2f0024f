package appointment

import (
	"context"
	"sync"

	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

// HistoryArchive is the append-only record of appointments that left the
// ledger, persisted under KeyHistory in append order.
type HistoryArchive struct {
	mu      sync.RWMutex
	store   store.Store
	entries []HistoryEntry
}

func NewHistoryArchive(s store.Store) *HistoryArchive {
	return &HistoryArchive{
		store:   s,
		entries: []HistoryEntry{},
	}
}

func (h *HistoryArchive) Load(ctx context.Context) error {
	entries, err := loadSnapshot[HistoryEntry](ctx, h.store, KeyHistory)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

// Append adds entry to the end of the archive. A failed write leaves the
// archive unchanged.
func (h *HistoryArchive) Append(ctx context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry.Appointment = entry.Appointment.clone()
	next := make([]HistoryEntry, 0, len(h.entries)+1)
	next = append(next, h.entries...)
	next = append(next, entry)

	if err := saveSnapshot(ctx, h.store, KeyHistory, next); err != nil {
		return err
	}
	h.entries = next
	return nil
}

func (h *HistoryArchive) All() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		e.Appointment = e.Appointment.clone()
		out[i] = e
	}
	return out
}

// Appointments returns the archived appointments without archive metadata,
// which is the shape the report exporter consumes.
func (h *HistoryArchive) Appointments() []Appointment {
	entries := h.All()
	out := make([]Appointment, len(entries))
	for i, e := range entries {
		out[i] = e.Appointment
	}
	return out
}

func (h *HistoryArchive) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

func (h *HistoryArchive) maxID() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var id int64
	for _, e := range h.entries {
		if e.ID > id {
			id = e.ID
		}
	}
	return id
}
