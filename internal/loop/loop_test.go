package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, cancel
}

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l, _ := startLoop(t)

	var got []int
	for i := range 5 {
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Call(context.Background(), func() {}))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_DeferFromLoopDoesNotBlock(t *testing.T) {
	l, _ := startLoop(t)

	var got []string
	err := l.Call(context.Background(), func() {
		for range 200 {
			l.Defer(func() { got = append(got, "tick") })
		}
	})
	require.NoError(t, err)
	require.NoError(t, l.Call(context.Background(), func() {}))

	assert.Len(t, got, 200)
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	l, _ := startLoop(t)

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_StoppedTimerDoesNotRun(t *testing.T) {
	l, _ := startLoop(t)

	ran := false
	var timer Timer
	require.NoError(t, l.Call(context.Background(), func() {
		timer = l.AfterFunc(50*time.Millisecond, func() { ran = true })
	}))
	require.NoError(t, l.Call(context.Background(), func() {
		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())
	}))

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, l.Call(context.Background(), func() {}))
	assert.False(t, ran)
}

func TestLoop_PostAfterStop(t *testing.T) {
	l, cancel := startLoop(t)
	require.NoError(t, l.Call(context.Background(), func() {}))
	cancel()

	assert.Eventually(t, func() bool { return !l.Post(func() {}) }, time.Second, time.Millisecond)
	assert.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestManual_AdvanceFiresInOrder(t *testing.T) {
	m := NewManual()
	var got []string

	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() {
		got = append(got, "a")
		m.Defer(func() { got = append(got, "a-deferred") })
	})
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "a-deferred", "b"}, got)
	assert.Equal(t, 20*time.Millisecond, m.Now())
	assert.Equal(t, 1, m.Pending())

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "a-deferred", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_StopAndChainedTimers(t *testing.T) {
	m := NewManual()
	var got []time.Duration

	stopped := m.AfterFunc(5*time.Millisecond, func() { got = append(got, -1) })
	m.AfterFunc(5*time.Millisecond, func() {
		got = append(got, m.Now())
		m.AfterFunc(5*time.Millisecond, func() { got = append(got, m.Now()) })
	})
	assert.True(t, stopped.Stop())

	m.Advance(time.Second)
	assert.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond}, got)
}

func TestManual_Flush(t *testing.T) {
	m := NewManual()
	count := 0
	m.Defer(func() {
		count++
		m.Defer(func() { count++ })
	})

	assert.Equal(t, 2, m.Flush())
	assert.Equal(t, 2, count)
	assert.Equal(t, 0, m.Flush())
}
