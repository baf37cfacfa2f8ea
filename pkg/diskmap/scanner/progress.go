package scanner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// Tracker holds live scan counters. All methods are safe for concurrent use
// from every worker; reads never block writes.
type Tracker struct {
	files atomic.Int64
	dirs  atomic.Int64
	errs  atomic.Int64
	bytes atomic.Int64

	started time.Time
}

// NewTracker creates a tracker with the clock started now.
func NewTracker() *Tracker {
	return &Tracker{started: time.Now()}
}

// AddFile records one resolved file of the given size.
func (t *Tracker) AddFile(size int64) {
	t.files.Add(1)
	t.bytes.Add(size)
}

// AddDir records one discovered directory.
func (t *Tracker) AddDir() {
	t.dirs.Add(1)
}

// AddError records one failed path resolution or directory listing.
func (t *Tracker) AddError() {
	t.errs.Add(1)
}

// RemoveDir reverses one directory count. Used when a directory's placeholder
// is replaced by an error entry after its listing fails, so the path is
// counted as an error rather than a directory.
func (t *Tracker) RemoveDir() {
	t.dirs.Add(-1)
}

// Snapshot returns a point-in-time copy of the counters. Counters are read
// independently, so a snapshot taken mid-scan may be skewed by in-flight
// updates; totals are exact once the scan has finished.
func (t *Tracker) Snapshot() types.ScanStats {
	return types.ScanStats{
		FilesProcessed: t.files.Load(),
		DirsProcessed:  t.dirs.Load(),
		Errors:         t.errs.Load(),
		BytesCounted:   t.bytes.Load(),
		Elapsed:        time.Since(t.started),
	}
}

// Reporter periodically invokes a callback with progress snapshots, for
// progress output decoupled from the worker pool.
type Reporter struct {
	snapshot func() types.ScanStats
	interval time.Duration
	emit     func(types.ScanStats)

	cancel context.CancelFunc
	done   chan struct{}
}

// DefaultReportInterval is the reporting period used when none is given.
const DefaultReportInterval = 500 * time.Millisecond

// NewReporter creates a reporter that calls emit with a snapshot every
// interval.
func NewReporter(snapshot func() types.ScanStats, interval time.Duration, emit func(types.ScanStats)) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &Reporter{
		snapshot: snapshot,
		interval: interval,
		emit:     emit,
	}
}

// Start begins periodic reporting until Stop is called or ctx is canceled.
func (r *Reporter) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.emit(r.snapshot())
			}
		}
	}()
}

// Stop halts reporting and emits one final snapshot so the last line always
// reflects the finished totals.
func (r *Reporter) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.emit(r.snapshot())
}
