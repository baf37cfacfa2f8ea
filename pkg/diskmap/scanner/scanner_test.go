package scanner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// createTestTree builds a small directory tree for scan tests:
//
//	root/
//	  a.txt        (100 bytes)
//	  sub/
//	    b.txt      (50 bytes)
func createTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "a.txt"), 100)
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 50)

	return root
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustScan(t *testing.T, opts Options) *types.ScanResult {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}
	res, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	return res
}

// TestDefaultOptions verifies default options are set correctly.
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Root != "." {
		t.Errorf("expected Root='.', got %q", opts.Root)
	}
	if opts.Workers < 1 {
		t.Errorf("expected positive worker count, got %d", opts.Workers)
	}
	if opts.MaxDepth != -1 {
		t.Errorf("expected MaxDepth=-1, got %d", opts.MaxDepth)
	}
	if opts.QueueSize != defaultQueueSize {
		t.Errorf("expected QueueSize=%d, got %d", defaultQueueSize, opts.QueueSize)
	}
}

// TestOptionsValidate verifies validation sets defaults for invalid values.
func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantRoot  string
		wantQueue int
	}{
		{
			name:      "empty options",
			opts:      Options{},
			wantRoot:  ".",
			wantQueue: defaultQueueSize,
		},
		{
			name: "negative queue",
			opts: Options{
				Root:      "/tmp",
				QueueSize: -1,
			},
			wantRoot:  "/tmp",
			wantQueue: defaultQueueSize,
		},
		{
			name: "valid options unchanged",
			opts: Options{
				Root:      "/tmp",
				Workers:   2,
				QueueSize: 128,
			},
			wantRoot:  "/tmp",
			wantQueue: 128,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.Validate(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.opts.Root != tt.wantRoot {
				t.Errorf("Root: got %q, want %q", tt.opts.Root, tt.wantRoot)
			}
			if tt.opts.QueueSize != tt.wantQueue {
				t.Errorf("QueueSize: got %d, want %d", tt.opts.QueueSize, tt.wantQueue)
			}
			if tt.opts.Workers < 1 {
				t.Errorf("Workers: got %d, want >= 1", tt.opts.Workers)
			}
			if tt.opts.Owner == nil {
				t.Error("Owner: got nil, want default resolver")
			}
		})
	}
}

// TestScanBasic verifies entries, child lists, and counters for a small tree.
func TestScanBasic(t *testing.T) {
	root := createTestTree(t)

	res := mustScan(t, Options{Root: root, Workers: 4, MaxDepth: -1})

	if res.RootPath != root {
		t.Errorf("RootPath = %q, want %q", res.RootPath, root)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}

	for _, path := range []string{
		root,
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.txt"),
	} {
		if res.Entries[path] == nil {
			t.Errorf("missing entry for %q", path)
		}
	}

	if got := len(res.Children[root]); got != 2 {
		t.Errorf("root has %d recorded children, want 2", got)
	}
	if got := len(res.Children[filepath.Join(root, "sub")]); got != 1 {
		t.Errorf("sub has %d recorded children, want 1", got)
	}

	a := res.Entries[filepath.Join(root, "a.txt")]
	if a.Kind != types.KindFile || a.Size != 100 {
		t.Errorf("a.txt = kind %q size %d, want file/100", a.Kind, a.Size)
	}
	if a.Owner == "" || a.Modified == "" || a.Accessed == "" {
		t.Error("a.txt is missing owner or timestamps")
	}

	sub := res.Entries[filepath.Join(root, "sub")]
	if sub.Kind != types.KindDirectory || sub.Size != 0 {
		t.Errorf("sub = kind %q size %d, want directory placeholder with size 0", sub.Kind, sub.Size)
	}

	if res.Stats.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", res.Stats.FilesProcessed)
	}
	if res.Stats.DirsProcessed != 2 {
		t.Errorf("DirsProcessed = %d, want 2", res.Stats.DirsProcessed)
	}
	if res.Stats.BytesCounted != 150 {
		t.Errorf("BytesCounted = %d, want 150", res.Stats.BytesCounted)
	}
	if res.Stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", res.Stats.Errors)
	}
}

// TestScanMissingRoot verifies an unreadable root yields a single error
// entry rather than a failure.
func TestScanMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	res := mustScan(t, Options{Root: root, Workers: 2})

	entry := res.Entries[root]
	if entry == nil {
		t.Fatal("missing root entry")
	}
	if entry.Kind != types.KindError {
		t.Errorf("root kind = %q, want %q", entry.Kind, types.KindError)
	}
	if entry.ErrorDetail == "" {
		t.Error("root error entry has no detail")
	}
	if res.Stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", res.Stats.Errors)
	}
}

// TestScanFileRoot verifies a regular-file root resolves without traversal.
func TestScanFileRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.txt")
	writeFile(t, path, 42)

	res := mustScan(t, Options{Root: path, Workers: 2})

	entry := res.Entries[path]
	if entry == nil {
		t.Fatal("missing root entry")
	}
	if entry.Kind != types.KindFile || entry.Size != 42 {
		t.Errorf("root = kind %q size %d, want file/42", entry.Kind, entry.Size)
	}
	if res.Stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", res.Stats.FilesProcessed)
	}
}

// TestScanSkipNames verifies skipped entries are neither recorded nor
// counted.
func TestScanSkipNames(t *testing.T) {
	root := createTestTree(t)

	res := mustScan(t, Options{
		Root:      root,
		Workers:   2,
		MaxDepth:  -1,
		SkipNames: []string{"sub"},
	})

	if res.Entries[filepath.Join(root, "sub")] != nil {
		t.Error("skipped directory was resolved")
	}
	if res.Entries[filepath.Join(root, "sub", "b.txt")] != nil {
		t.Error("file inside skipped directory was resolved")
	}
	if got := len(res.Children[root]); got != 1 {
		t.Errorf("root has %d recorded children, want 1", got)
	}
	if res.Stats.DirsProcessed != 1 {
		t.Errorf("DirsProcessed = %d, want 1 (root only)", res.Stats.DirsProcessed)
	}
	if res.Stats.BytesCounted != 100 {
		t.Errorf("BytesCounted = %d, want 100", res.Stats.BytesCounted)
	}
}

// TestScanMaxDepth verifies directories beyond the depth limit stay
// unexpanded placeholders.
func TestScanMaxDepth(t *testing.T) {
	root := createTestTree(t)

	res := mustScan(t, Options{Root: root, Workers: 2, MaxDepth: 0})

	sub := filepath.Join(root, "sub")
	if res.Entries[sub] == nil {
		t.Fatal("truncated directory should still be recorded as a placeholder")
	}
	if _, listed := res.Children[sub]; listed {
		t.Error("truncated directory should not be listed")
	}
	if res.Entries[filepath.Join(sub, "b.txt")] != nil {
		t.Error("file below the depth limit was resolved")
	}
	if res.Stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", res.Stats.FilesProcessed)
	}
}

// TestScanDirectoryMetadata verifies directory placeholders carry owner and
// timestamps just like file entries.
func TestScanDirectoryMetadata(t *testing.T) {
	root := createTestTree(t)

	res := mustScan(t, Options{Root: root, Workers: 2, MaxDepth: -1})

	for _, path := range []string{root, filepath.Join(root, "sub")} {
		entry := res.Entries[path]
		if entry == nil {
			t.Fatalf("missing entry for %q", path)
		}
		if entry.Owner == "" {
			t.Errorf("%s has no owner", path)
		}
		if entry.Modified == "" || entry.Modified == types.Unknown {
			t.Errorf("%s Modified = %q, want a timestamp", path, entry.Modified)
		}
		if entry.Accessed == "" {
			t.Errorf("%s has no accessed time", path)
		}
	}
}

// TestScanUnlistableDirCountsErrorOnce verifies a directory whose listing
// fails after its placeholder was discovered ends up in exactly one counter:
// the error column.
func TestScanUnlistableDirCountsErrorOnce(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	s, err := New(Options{Root: root, Workers: 1})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}

	if entry := s.resolve(sub, HintDir); !entry.IsDir() {
		t.Fatalf("placeholder kind = %q, want directory", entry.Kind)
	}
	if err := os.RemoveAll(sub); err != nil {
		t.Fatalf("remove: %v", err)
	}
	s.processDirectory(context.Background(), item{path: sub, depth: 1})

	stats := s.Progress()
	if stats.DirsProcessed != 0 {
		t.Errorf("DirsProcessed = %d, want 0", stats.DirsProcessed)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}

	entry, ok := s.cache.Get(sub)
	if !ok || entry.Kind != types.KindError {
		t.Fatalf("cache entry = %+v, want an error entry", entry)
	}
	if entry.ErrorDetail == "" {
		t.Error("error entry has no detail")
	}
}

// TestScanSymlinks verifies a symlink to a file is counted as the file it
// points at, while symlinked directories and broken links are dropped.
func TestScanSymlinks(t *testing.T) {
	root := createTestTree(t)

	if err := os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "sub"), filepath.Join(root, "sublink")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	res := mustScan(t, Options{Root: root, Workers: 2, MaxDepth: -1})

	link := res.Entries[filepath.Join(root, "link.txt")]
	if link == nil {
		t.Fatal("missing entry for link.txt")
	}
	if link.Kind != types.KindFile || link.Size != 100 {
		t.Errorf("link.txt = kind %q size %d, want file/100", link.Kind, link.Size)
	}

	if res.Entries[filepath.Join(root, "sublink")] != nil {
		t.Error("symlinked directory was resolved")
	}
	if res.Entries[filepath.Join(root, "broken")] != nil {
		t.Error("broken symlink was resolved")
	}

	if res.Stats.FilesProcessed != 3 {
		t.Errorf("FilesProcessed = %d, want 3", res.Stats.FilesProcessed)
	}
	if res.Stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", res.Stats.Errors)
	}
	if got := len(res.Children[root]); got != 3 {
		t.Errorf("root has %d recorded children, want 3", got)
	}
}

// TestScanCountersMatchEntries verifies the counters equal the number of
// distinct entries of each kind.
func TestScanCountersMatchEntries(t *testing.T) {
	root := createTestTree(t)

	res := mustScan(t, Options{Root: root, Workers: 8, MaxDepth: -1})

	var files, dirs, errors int64
	for _, entry := range res.Entries {
		switch entry.Kind {
		case types.KindFile:
			files++
		case types.KindDirectory:
			dirs++
		case types.KindError:
			errors++
		}
	}

	if res.Stats.FilesProcessed != files {
		t.Errorf("FilesProcessed = %d, entries show %d", res.Stats.FilesProcessed, files)
	}
	if res.Stats.DirsProcessed != dirs {
		t.Errorf("DirsProcessed = %d, entries show %d", res.Stats.DirsProcessed, dirs)
	}
	if res.Stats.Errors != errors {
		t.Errorf("Errors = %d, entries show %d", res.Stats.Errors, errors)
	}
}

// TestScanSmallQueue verifies the inline-expansion fallback completes a scan
// whose queue is far smaller than the tree.
func TestScanSmallQueue(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, filepath.Join(dir, "nested", "f.txt"), 10)
	}

	res := mustScan(t, Options{Root: root, Workers: 2, MaxDepth: -1, QueueSize: 1})

	if res.Stats.FilesProcessed != 5 {
		t.Errorf("FilesProcessed = %d, want 5", res.Stats.FilesProcessed)
	}
	if res.Stats.DirsProcessed != 11 {
		t.Errorf("DirsProcessed = %d, want 11", res.Stats.DirsProcessed)
	}
}

// TestScanCanceledContext verifies cancellation surfaces as the context
// error with a usable partial result.
func TestScanCanceledContext(t *testing.T) {
	root := createTestTree(t)

	s, err := New(Options{Root: root, Workers: 2})
	if err != nil {
		t.Fatalf("new scanner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Scan(ctx)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("partial result is nil")
	}
	if res.Entries[root] == nil {
		t.Error("partial result is missing the root entry")
	}
}
