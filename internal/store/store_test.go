package store

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Read(ctx, "appointments")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte(`[{"id":1}]`)
	require.NoError(t, s.Write(ctx, "appointments", value))

	// Mutating the caller's buffer must not leak into the store.
	value[0] = 'x'

	got, err := s.Read(ctx, "appointments")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))
	assert.NoError(t, s.Ping(ctx))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	s, err := NewFileStore(fs, "/data")
	require.NoError(t, err)

	_, err = s.Read(ctx, "appointmentHistory")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "appointmentHistory", []byte(`[]`)))
	require.NoError(t, s.Write(ctx, "appointmentHistory", []byte(`[{"id":2}]`)))

	got, err := s.Read(ctx, "appointmentHistory")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2}]`, string(got))

	onDisk, err := afero.ReadFile(fs, "/data/appointmentHistory.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2}]`, string(onDisk))

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	assert.NoError(t, s.Ping(ctx))
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	assert.Error(t, s.Write(ctx, "../escape", []byte("x")))
	_, err = s.Read(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Write(ctx, "darkMode", []byte("true")), context.Canceled)
}

func TestFileLocker_ExcludesOtherHolders(t *testing.T) {
	dir := t.TempDir()
	holder := NewFileLocker(dir)
	other := NewFileLocker(dir)

	held := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		finished <- holder.WithLock(context.Background(), "ledger", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := other.WithLock(ctx, "ledger", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-finished)

	ran := false
	require.NoError(t, other.WithLock(context.Background(), "ledger", func(ctx context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)
}

func TestFileLocker_RejectsBadKey(t *testing.T) {
	l := NewFileLocker(t.TempDir())
	err := l.WithLock(context.Background(), "../ledger", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
