package db

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a reachable database; set POSTGRES_TEST_DSN to run.
func TestAdvisoryLocker_SerializesAcrossPools(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()

	poolA, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer poolA.Close()
	poolB, err := ConnectPostgres(ctx, dsn)
	require.NoError(t, err)
	defer poolB.Close()

	lockers := []*AdvisoryLocker{NewAdvisoryLocker(poolA), NewAdvisoryLocker(poolB)}

	var inside, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(l *AdvisoryLocker) {
			defer wg.Done()
			err := l.WithLock(ctx, "ledger-test", func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				if n > atomic.LoadInt32(&peak) {
					atomic.StoreInt32(&peak, n)
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}(lockers[i%2])
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}
