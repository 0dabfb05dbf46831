package async

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Close()

	var calls int64
	var last int64
	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() {
			atomic.AddInt64(&calls, 1)
			atomic.StoreInt64(&last, int64(i))
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls), "burst must collapse to one call")
	assert.Equal(t, int64(5), atomic.LoadInt64(&last), "last trigger wins")
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Close()

	var calls int64
	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestDebouncerCloseNeverFiresLate(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls int64
	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	d.Close()
	d.Trigger(func() { atomic.AddInt64(&calls, 1) })

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&calls))
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Close()

	var calls int64
	d.Trigger(func() { atomic.AddInt64(&calls, 1) })
	d.Flush()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	// Flush with nothing pending is a no-op.
	d.Flush()
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}
