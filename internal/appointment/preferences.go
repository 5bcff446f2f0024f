package appointment

import (
	"context"
	"errors"
	"strconv"

	"github.com/hackgods/dentist-appointment-booking/internal/store"
)

// Preferences holds presentation settings that live next to the ledger.
type Preferences struct {
	store store.Store
}

func NewPreferences(s store.Store) *Preferences {
	return &Preferences{store: s}
}

// DarkMode reports the stored flag. Missing or unreadable values are false.
func (p *Preferences) DarkMode(ctx context.Context) (bool, error) {
	raw, err := p.store.Read(ctx, KeyDarkMode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, &PersistenceError{Op: "read", Key: KeyDarkMode, Err: err}
	}
	return string(raw) == "true", nil
}

func (p *Preferences) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := p.store.Write(ctx, KeyDarkMode, []byte(strconv.FormatBool(enabled))); err != nil {
		return &PersistenceError{Op: "write", Key: KeyDarkMode, Err: err}
	}
	return nil
}
