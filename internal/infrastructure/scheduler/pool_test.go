package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
)

func TestPool_RunsSubmittedTasks(t *testing.T) {
	pool := scheduler.NewPool(2, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		ok := pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			count.Add(1)
		})
		assert.True(t, ok)
	}
	wg.Wait()

	assert.Equal(t, int32(20), count.Load())
}

func TestPool_ScheduleOnceFiresAfterDelay(t *testing.T) {
	pool := scheduler.NewPool(1, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	fired := make(chan struct{})
	pool.ScheduleOnce(10*time.Millisecond, func(ctx context.Context) {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never fired")
	}
}

func TestPool_ScheduleOnceCanBeStopped(t *testing.T) {
	pool := scheduler.NewPool(1, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	var fired atomic.Bool
	timer := pool.ScheduleOnce(50*time.Millisecond, func(ctx context.Context) {
		fired.Store(true)
	})
	timer.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestPool_SurvivesPanickingTask(t *testing.T) {
	pool := scheduler.NewPool(1, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	done := make(chan struct{})
	pool.Submit(func(ctx context.Context) {
		panic("boom")
	})
	pool.Submit(func(ctx context.Context) {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestPool_RejectsAfterStop(t *testing.T) {
	pool := scheduler.NewPool(1, nil)
	pool.Start(context.Background())
	pool.Stop()

	ok := pool.Submit(func(ctx context.Context) {})

	assert.False(t, ok)
}
