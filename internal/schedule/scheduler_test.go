package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalJobFires(t *testing.T) {
	var runs atomic.Int32
	s, err := NewScheduler(RunnerFunc(func(context.Context) { runs.Add(1) }), time.UTC, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.ScheduleInterval(20 * time.Millisecond); err != nil {
		t.Fatalf("ScheduleInterval: %v", err)
	}

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("interval job never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestZeroIntervalRegistersNothing(t *testing.T) {
	s, err := NewScheduler(RunnerFunc(func(context.Context) {}), time.UTC, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.ScheduleInterval(0); err != nil {
		t.Fatalf("ScheduleInterval(0): %v", err)
	}
	if got := len(s.scheduler.Jobs()); got != 0 {
		t.Fatalf("jobs = %d, want 0", got)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestDailyRolloverRegisters(t *testing.T) {
	s, err := NewScheduler(RunnerFunc(func(context.Context) {}), time.UTC, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.ScheduleDailyRollover(); err != nil {
		t.Fatalf("ScheduleDailyRollover: %v", err)
	}
	if got := len(s.scheduler.Jobs()); got != 1 {
		t.Fatalf("jobs = %d, want 1", got)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
