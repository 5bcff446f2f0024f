package appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

var ErrSlotConflict = errors.New("slot already has an active appointment")

// Ledger is the set of active appointments. Every mutation rewrites the whole
// snapshot under KeyAppointments; if that write fails the mutation is undone.
type Ledger struct {
	mu     sync.RWMutex
	store  store.Store
	items  []Appointment
	lastID int64
	now    func() time.Time
}

func NewLedger(s store.Store) *Ledger {
	return &Ledger{
		store: s,
		items: []Appointment{},
		now:   time.Now,
	}
}

// Load replaces the in-memory set with the stored snapshot.
func (l *Ledger) Load(ctx context.Context) error {
	items, err := loadSnapshot[Appointment](ctx, l.store, KeyAppointments)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	for _, a := range items {
		if a.ID > l.lastID {
			l.lastID = a.ID
		}
	}
	return nil
}

// NextID derives an id from the current time, bumped past the last id handed
// out so two bookings in the same millisecond still differ.
func (l *Ledger) NextID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// observeID keeps NextID above an id handed out earlier, such as one that has
// since moved to history.
func (l *Ledger) observeID(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id > l.lastID {
		l.lastID = id
	}
}

func (l *Ledger) All() []Appointment {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Appointment, len(l.items))
	for i, a := range l.items {
		out[i] = a.clone()
	}
	return out
}

func (l *Ledger) Get(id int64) (Appointment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.items[i].clone(), nil
	}
	return Appointment{}, fmt.Errorf("%w: %d", ErrAppointmentNotFound, id)
}

// BookedSlotIDs returns the slot ids held by active appointments for one date
// and practitioner.
func (l *Ledger) BookedSlotIDs(date, practitionerID string) map[string]struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	booked := make(map[string]struct{})
	for _, a := range l.items {
		if a.Slot.Date == date && a.Slot.PractitionerID == practitionerID {
			booked[a.Slot.ID] = struct{}{}
		}
	}
	return booked
}

// Add appends appt. It fails with ErrSlotConflict when another active
// appointment already holds the slot.
func (l *Ledger) Add(ctx context.Context, appt Appointment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(appt.ID) >= 0 {
		return fmt.Errorf("appointment %d already exists", appt.ID)
	}
	if l.holderOf(appt.Slot.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrSlotConflict, appt.Slot.ID)
	}

	prev := l.items
	next := make([]Appointment, 0, len(prev)+1)
	next = append(next, prev...)
	next = append(next, appt.clone())

	if err := saveSnapshot(ctx, l.store, KeyAppointments, next); err != nil {
		return err
	}
	l.items = next
	if appt.ID > l.lastID {
		l.lastID = appt.ID
	}
	return nil
}

// Remove deletes the appointment and returns it as it was.
func (l *Ledger) Remove(ctx context.Context, id int64) (Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: %d", ErrAppointmentNotFound, id)
	}

	removed := l.items[i]
	next := make([]Appointment, 0, len(l.items)-1)
	next = append(next, l.items[:i]...)
	next = append(next, l.items[i+1:]...)

	if err := saveSnapshot(ctx, l.store, KeyAppointments, next); err != nil {
		return Appointment{}, err
	}
	l.items = next
	return removed.clone(), nil
}

// Update replaces the slot of an appointment in place and returns the updated
// appointment. Moving an appointment onto its own slot is allowed.
func (l *Ledger) Update(ctx context.Context, id int64, newSlot Slot) (Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return Appointment{}, fmt.Errorf("%w: %d", ErrAppointmentNotFound, id)
	}
	if h := l.holderOf(newSlot.ID); h >= 0 && h != i {
		return Appointment{}, fmt.Errorf("%w: %s", ErrSlotConflict, newSlot.ID)
	}

	next := make([]Appointment, len(l.items))
	copy(next, l.items)
	next[i].Slot = newSlot

	if err := saveSnapshot(ctx, l.store, KeyAppointments, next); err != nil {
		return Appointment{}, err
	}
	l.items = next
	return next[i].clone(), nil
}

// restore puts a previous snapshot back, used to compensate a compound
// operation whose second step failed.
func (l *Ledger) restore(ctx context.Context, items []Appointment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := saveSnapshot(ctx, l.store, KeyAppointments, items); err != nil {
		return err
	}
	l.items = items
	return nil
}

func (l *Ledger) indexOf(id int64) int {
	for i, a := range l.items {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) holderOf(slotID string) int {
	for i, a := range l.items {
		if a.Slot.ID == slotID {
			return i
		}
	}
	return -1
}
