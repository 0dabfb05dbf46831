package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunnerExecutesSubmittedTasks(t *testing.T) {
	r := NewRunner(zap.NewNop(), 4, time.Second)

	var ran int64
	for i := 0; i < 3; i++ {
		r.Submit("test", func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))
	assert.Equal(t, int64(3), atomic.LoadInt64(&ran))
}

func TestRunnerSwallowsErrorsAndPanics(t *testing.T) {
	r := NewRunner(zap.NewNop(), 2, time.Second)

	r.Submit("fails", func(ctx context.Context) error {
		return errors.New("boom")
	})
	r.Submit("panics", func(ctx context.Context) error {
		panic("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	// Neither task may take the process down or block the drain.
	require.NoError(t, r.Close(ctx))
}

func TestRunnerDropsAfterClose(t *testing.T) {
	r := NewRunner(zap.NewNop(), 2, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))

	var ran int64
	r.Submit("late", func(ctx context.Context) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&ran))
}
