package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrPractitionerUnknown = errors.New("practitioner not found")
)

// PersistenceError reports a failed store read or write. The in-memory state
// is left as it was before the operation.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// loadSnapshot decodes the JSON array stored under key. A missing key is an
// empty snapshot.
func loadSnapshot[T any](ctx context.Context, s store.Store, key string) ([]T, error) {
	raw, err := s.Read(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []T{}, nil
		}
		return nil, &PersistenceError{Op: "read", Key: key, Err: err}
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &PersistenceError{Op: "decode", Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveSnapshot[T any](ctx context.Context, s store.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return &PersistenceError{Op: "encode", Key: key, Err: err}
	}
	if err := s.Write(ctx, key, data); err != nil {
		return &PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}
