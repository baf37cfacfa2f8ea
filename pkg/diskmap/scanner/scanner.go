package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rfowler/diskmap/pkg/diskmap/logging"
	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// item is a unit of scan work: a directory to expand and its depth relative
// to the root.
type item struct {
	path  string
	depth int
}

// Scanner walks a directory tree with a pool of workers, producing a
// path-keyed entry cache and per-directory child lists for finalization.
type Scanner struct {
	opts    Options
	cache   *Cache
	tracker *Tracker
	logger  *logging.Logger

	queue    chan item
	inFlight atomic.Int64

	mu       sync.Mutex
	children map[string][]*types.Entry
	skip     map[string]struct{}
}

// New creates a scanner with the given options.
func New(opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(opts.SkipNames))
	for _, name := range opts.SkipNames {
		skip[name] = struct{}{}
	}

	return &Scanner{
		opts:     opts,
		cache:    NewCache(),
		tracker:  NewTracker(),
		logger:   logging.Get("scanner"),
		queue:    make(chan item, opts.QueueSize),
		children: make(map[string][]*types.Entry),
		skip:     skip,
	}, nil
}

// Progress returns a snapshot of the live scan counters.
func (s *Scanner) Progress() types.ScanStats {
	return s.tracker.Snapshot()
}

// Scan traverses the tree rooted at the configured path and returns the
// collected entries, child lists, and final counters. A canceled context
// stops the workers early; the partial result is still returned along with
// the context error.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	root := filepath.Clean(s.opts.Root)
	runID := uuid.New().String()

	s.logger.Info("scan started", "root", root, "workers", s.opts.Workers, "run_id", runID)

	info, err := os.Stat(root)
	switch {
	case err != nil:
		// Unreadable root still yields a renderable result: a single
		// error entry.
		s.tracker.AddError()
		s.cache.Replace(root, errorEntry(root, err))
		s.logger.Error("root not accessible", "root", root, "error", err)
		return s.result(root, runID), nil

	case !info.IsDir():
		// A file root resolves directly with no traversal.
		s.resolve(root, HintUnknown)
		return s.result(root, runID), nil
	}

	if e := s.resolve(root, HintUnknown); !e.IsDir() {
		return s.result(root, runID), nil
	}

	// The root item counts as in flight before any worker starts, so the
	// pool cannot observe zero and quit before work begins.
	s.inFlight.Store(1)
	s.queue <- item{path: root, depth: 0}

	workCtx, done := context.WithCancel(ctx)
	defer done()

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(workCtx, done)
		}()
	}
	wg.Wait()

	stats := s.tracker.Snapshot()
	s.logger.Info("scan finished",
		"files", stats.FilesProcessed,
		"dirs", stats.DirsProcessed,
		"errors", stats.Errors,
		"bytes", stats.BytesCounted,
		"elapsed", stats.Elapsed)

	return s.result(root, runID), ctx.Err()
}

// worker drains the queue until all in-flight items are accounted for or the
// context is canceled. The last worker to decrement the in-flight counter to
// zero cancels the pool's context, releasing the others.
func (s *Scanner) worker(ctx context.Context, done context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case it := <-s.queue:
			s.processDirectory(ctx, it)
			if s.inFlight.Add(-1) == 0 {
				done()
				return
			}
		}
	}
}

// processDirectory lists one directory, resolves every child, and enqueues
// child directories for expansion.
func (s *Scanner) processDirectory(ctx context.Context, it item) {
	dirents, err := os.ReadDir(it.path)
	if err != nil {
		// The placeholder was counted as a directory when it was
		// discovered; it lands in the error column instead, so the
		// directory count is reversed to keep every path in exactly
		// one counter.
		s.tracker.AddError()
		s.tracker.RemoveDir()
		s.cache.Replace(it.path, errorEntry(it.path, err))
		s.logger.Debug("list failed", "path", it.path, "error", err)
		return
	}

	var children []*types.Entry
	for _, d := range dirents {
		if ctx.Err() != nil {
			return
		}
		if _, skip := s.skip[d.Name()]; skip {
			continue
		}

		childPath := filepath.Join(it.path, d.Name())
		if !readable(childPath) {
			// Unreadable children are dropped without an entry, the
			// same as skipped names.
			continue
		}

		switch {
		case d.IsDir():
			child := s.resolve(childPath, HintDir)
			children = append(children, child)
			if child.IsDir() {
				s.expand(ctx, item{path: childPath, depth: it.depth + 1})
			}

		case d.Type().IsRegular():
			children = append(children, s.resolve(childPath, HintFile))

		case d.Type()&fs.ModeSymlink != 0:
			// A symlink to a file counts as the file it points at.
			// Symlinked directories are not followed and broken
			// links are dropped.
			if info, err := os.Stat(childPath); err == nil && info.Mode().IsRegular() {
				children = append(children, s.resolve(childPath, HintFile))
			}
		}
		// Other special files (sockets, devices, pipes) are neither
		// sized nor followed.
	}

	s.mu.Lock()
	s.children[it.path] = children
	s.mu.Unlock()
}

// expand schedules a child directory for processing. Beyond the depth limit
// the directory stays a size-zero placeholder. When the queue is full the
// caller expands the child inline instead of blocking, which keeps the pool
// deadlock-free with a bounded buffer.
func (s *Scanner) expand(ctx context.Context, it item) {
	if s.opts.MaxDepth >= 0 && it.depth > s.opts.MaxDepth {
		return
	}

	s.inFlight.Add(1)
	select {
	case s.queue <- it:
	default:
		s.processDirectory(ctx, it)
		// The caller's own item is still in flight, so this decrement
		// can never be the one that reaches zero.
		s.inFlight.Add(-1)
	}
}

// result assembles the scan output from the cache and recorded child lists.
func (s *Scanner) result(root, runID string) *types.ScanResult {
	s.mu.Lock()
	children := make(map[string][]*types.Entry, len(s.children))
	for path, kids := range s.children {
		children[path] = kids
	}
	s.mu.Unlock()

	return &types.ScanResult{
		RootPath: root,
		Entries:  s.cache.Entries(),
		Children: children,
		Stats:    s.tracker.Snapshot(),
		RunID:    runID,
	}
}
