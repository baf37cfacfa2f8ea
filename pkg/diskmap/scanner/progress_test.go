package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// TestTrackerCounters verifies counter accumulation.
func TestTrackerCounters(t *testing.T) {
	tracker := NewTracker()

	tracker.AddFile(100)
	tracker.AddFile(50)
	tracker.AddDir()
	tracker.AddError()

	stats := tracker.Snapshot()
	if stats.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", stats.FilesProcessed)
	}
	if stats.DirsProcessed != 1 {
		t.Errorf("DirsProcessed = %d, want 1", stats.DirsProcessed)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if stats.BytesCounted != 150 {
		t.Errorf("BytesCounted = %d, want 150", stats.BytesCounted)
	}
}

// TestTrackerConcurrent verifies counters are exact under concurrent updates.
func TestTrackerConcurrent(t *testing.T) {
	tracker := NewTracker()

	const goroutines = 16
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				tracker.AddFile(1)
				tracker.AddDir()
			}
		}()
	}
	wg.Wait()

	stats := tracker.Snapshot()
	want := int64(goroutines * perGoroutine)
	if stats.FilesProcessed != want {
		t.Errorf("FilesProcessed = %d, want %d", stats.FilesProcessed, want)
	}
	if stats.DirsProcessed != want {
		t.Errorf("DirsProcessed = %d, want %d", stats.DirsProcessed, want)
	}
	if stats.BytesCounted != want {
		t.Errorf("BytesCounted = %d, want %d", stats.BytesCounted, want)
	}
}

// TestReporterEmits verifies periodic emission and the final snapshot on
// Stop.
func TestReporterEmits(t *testing.T) {
	tracker := NewTracker()
	tracker.AddFile(10)

	var emits atomic.Int64
	var last atomic.Int64
	reporter := NewReporter(tracker.Snapshot, 10*time.Millisecond, func(stats types.ScanStats) {
		emits.Add(1)
		last.Store(stats.FilesProcessed)
	})

	reporter.Start(context.Background())
	time.Sleep(60 * time.Millisecond)
	reporter.Stop()

	if emits.Load() < 2 {
		t.Errorf("emitted %d times, want at least 2", emits.Load())
	}
	if last.Load() != 1 {
		t.Errorf("final snapshot FilesProcessed = %d, want 1", last.Load())
	}

	// No emissions after Stop.
	settled := emits.Load()
	time.Sleep(30 * time.Millisecond)
	if emits.Load() != settled {
		t.Error("reporter emitted after Stop")
	}
}

// TestReporterContextCancel verifies a canceled context halts the loop.
func TestReporterContextCancel(t *testing.T) {
	tracker := NewTracker()

	var emits atomic.Int64
	reporter := NewReporter(tracker.Snapshot, 5*time.Millisecond, func(types.ScanStats) {
		emits.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	reporter.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	settled := emits.Load()
	time.Sleep(20 * time.Millisecond)
	if emits.Load() != settled {
		t.Error("reporter emitted after context cancellation")
	}
}
