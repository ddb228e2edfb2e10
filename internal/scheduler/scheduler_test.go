package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/freee021022/onco/internal/storage"
)

type fakeReconciler struct {
	calls  chan struct{}
	result storage.ReconcileResult
	err    error
}

func (f *fakeReconciler) ReconcileCounters(ctx context.Context) (storage.ReconcileResult, error) {
	if _, ok := ctx.Deadline(); !ok {
		return storage.ReconcileResult{}, errors.New("missing deadline")
	}
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return f.result, f.err
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	if _, err := NewScheduler(&fakeReconciler{}, "not a schedule", time.Second); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestSchedulerRunsReconcile(t *testing.T) {
	rec := &fakeReconciler{
		calls:  make(chan struct{}, 1),
		result: storage.ReconcileResult{Categories: 2, Posts: 1},
	}

	s, err := NewScheduler(rec, "@every 1s", time.Second)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case <-rec.calls:
	case <-time.After(3 * time.Second):
		t.Fatalf("reconcile job did not run")
	}

	deadline := time.Now().Add(time.Second)
	for s.LastRun() != rec.result {
		if time.Now().After(deadline) {
			t.Fatalf("expected last run %+v, got %+v", rec.result, s.LastRun())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestReconcileKeepsLastRunOnError(t *testing.T) {
	rec := &fakeReconciler{calls: make(chan struct{}, 1), err: errors.New("db down")}

	s, err := NewScheduler(rec, "@hourly", time.Second)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.lastRun = storage.ReconcileResult{Posts: 5}

	s.reconcile()

	if s.LastRun().Posts != 5 {
		t.Fatalf("failed run must not overwrite last result")
	}
}
