package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Fetching templates...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}

func TestSpinnerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Fetching templates...")
	s.Start()
	cancel()

	time.Sleep(100 * time.Millisecond)
	if !s.cancelled() {
		t.Error("spinner should be cancelled after parent context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopsOnTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Fetching templates...")
	s.Start()

	time.Sleep(100 * time.Millisecond)
	if !s.cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Fetching templates...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
