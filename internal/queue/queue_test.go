package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolProcessesAllJobs(t *testing.T) {
	p := New(4, 2, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var processed int32
	for i := 0; i < 10; i++ {
		ok := p.Enqueue(ctx, Job{
			ID: "job",
			Work: func(ctx context.Context) error {
				atomic.AddInt32(&processed, 1)
				return nil
			},
		})
		if !ok {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	p.Drain()
	if atomic.LoadInt32(&processed) != 10 {
		t.Fatalf("expected 10 processed jobs, got %d", processed)
	}
	if stats := p.Snapshot(); stats.Processed != 10 || stats.Failed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestPoolJobFailureDoesNotAffectOthers(t *testing.T) {
	p := New(2, 1, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var failures int32
	p.Enqueue(ctx, Job{
		ID:       "bad",
		Work:     func(ctx context.Context) error { return errors.New("boom") },
		OnFinish: func(err error) { atomic.AddInt32(&failures, 1) },
	})
	var ok int32
	p.Enqueue(ctx, Job{
		ID:   "good",
		Work: func(ctx context.Context) error { atomic.AddInt32(&ok, 1); return nil },
	})
	p.Drain()
	if atomic.LoadInt32(&ok) != 1 {
		t.Fatalf("good job must run despite the failing one")
	}
	if stats := p.Snapshot(); stats.Failed != 1 {
		t.Fatalf("expected 1 failure, got %+v", stats)
	}
	if atomic.LoadInt32(&failures) != 1 {
		t.Fatalf("OnFinish not called with the error")
	}
}

func TestPoolPerJobTimeout(t *testing.T) {
	p := New(1, 1, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var timedOut int32
	p.Enqueue(ctx, Job{
		ID: "slow",
		Work: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
		OnFinish: func(err error) {
			if errors.Is(err, context.DeadlineExceeded) {
				atomic.AddInt32(&timedOut, 1)
			}
		},
	})
	p.Drain()
	if atomic.LoadInt32(&timedOut) != 1 {
		t.Fatalf("expected the job to hit its timeout")
	}
}
