package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	clock := NewManualScheduler()
	d := New(clock, 300*time.Millisecond)

	var got []string
	for _, v := range []string{"a", "ap", "app"} {
		v := v
		d.Trigger(func() { got = append(got, v) })
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, got)

	clock.Advance(199 * time.Millisecond)
	assert.Empty(t, got)
	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"app"}, got)
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Len(t, got, 1)
}

func TestDebouncerCancelAndStop(t *testing.T) {
	clock := NewManualScheduler()
	d := New(clock, 0)
	assert.Equal(t, DefaultDelay, d.Delay())

	fired := 0
	d.Trigger(func() { fired++ })
	require.True(t, d.Pending())
	d.Cancel()
	clock.Advance(time.Second)
	assert.Zero(t, fired)

	d.Trigger(func() { fired++ })
	d.Stop()
	d.Trigger(func() { fired++ })
	clock.Advance(time.Second)
	assert.Zero(t, fired)
	assert.Zero(t, clock.Pending())
}

func TestManualSchedulerOrder(t *testing.T) {
	clock := NewManualScheduler()
	var order []int
	clock.Schedule(20*time.Millisecond, func() { order = append(order, 2) })
	clock.Schedule(10*time.Millisecond, func() { order = append(order, 1) })
	h := clock.Schedule(15*time.Millisecond, func() { order = append(order, 99) })
	clock.Cancel(h)
	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 50*time.Millisecond, clock.Now())
}

func TestRealScheduler(t *testing.T) {
	d := New(NewRealScheduler(), 20*time.Millisecond)
	var n atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { n.Add(1) })
	}
	require.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), n.Load())
}
