package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

var errDiskFull = errors.New("disk full")

// flakyStore wraps a memory store and fails writes to keys listed in failWrites.
type flakyStore struct {
	*store.MemoryStore

	mu         sync.Mutex
	failWrites map[string]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		MemoryStore: store.NewMemoryStore(),
		failWrites:  make(map[string]bool),
	}
}

func (f *flakyStore) failOn(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites[key] = fail
}

func (f *flakyStore) Write(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failWrites[key]
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.MemoryStore.Write(ctx, key, value)
}

// slowStore delays every write, widening the window between a snapshot read
// and its write-back.
type slowStore struct {
	*store.MemoryStore
	delay time.Duration
}

func (s *slowStore) Write(ctx context.Context, key string, value []byte) error {
	time.Sleep(s.delay)
	return s.MemoryStore.Write(ctx, key, value)
}

func testAppointment(id int64, slot Slot) Appointment {
	return Appointment{
		ID:          id,
		PatientName: "Asha",
		Gender:      GenderFemale,
		Age:         29,
		Mobile:      "9876543210",
		Slot:        slot,
	}
}

func mustSlot(date, hhmm string) Slot {
	s, err := SlotAt(date, "1", hhmm)
	if err != nil {
		panic(err)
	}
	return s
}
