package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// sampleResult builds a small finalized result for formatter tests.
func sampleResult() *Result {
	b := &types.Entry{
		Name: "b.txt", Path: "/r/sub/b.txt", Size: 50,
		HumanSize: "50.0 B", Kind: types.KindFile,
		Owner: "alice", Modified: "2024-03-01 10:00:00", Accessed: "2024-03-01 11:00:00",
	}
	sub := &types.Entry{
		Name: "sub", Path: "/r/sub", Size: 50,
		HumanSize: "50.0 B", Kind: types.KindDirectory,
		Children: []*types.Entry{b},
	}
	a := &types.Entry{
		Name: "a.txt", Path: "/r/a.txt", Size: 100,
		HumanSize: "100.0 B", Kind: types.KindFile,
		Owner: "alice", Modified: "2024-03-01 10:00:00", Accessed: "2024-03-01 11:00:00",
	}
	root := &types.Entry{
		Name: "r", Path: "/r", Size: 150,
		HumanSize: "150.0 B", Kind: types.KindDirectory,
		Children: []*types.Entry{a, sub},
	}

	return &Result{
		Root: root,
		Stats: types.ScanStats{
			FilesProcessed: 2,
			DirsProcessed:  2,
			BytesCounted:   150,
			Elapsed:        3 * time.Second,
		},
		Source:      "/r",
		RunID:       "test-run",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register("test", func() Formatter { return &PlainFormatter{} })

	formatter, err := registry.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, formatter)

	_, err = registry.Get("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"test"}, registry.Available())
}

func TestDefaultRegistryFormats(t *testing.T) {
	for _, name := range []string{"html", "json", "pretty", "plain"} {
		formatter, err := Get(name)
		require.NoError(t, err, "formatter %s", name)
		assert.NotNil(t, formatter)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JSONFormatter{}
	require.NoError(t, formatter.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, `"tree"`)
	assert.Contains(t, out, `"human_size": "150.0 B"`)
	assert.Contains(t, out, `"run_id": "test-run"`)
	assert.Contains(t, out, `"files_processed": 2`)
	assert.Contains(t, out, `"total_size": 150`)
}

func TestHTMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &HTMLFormatter{}
	require.NoError(t, formatter.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `"path":"/r/sub/b.txt"`)
	assert.Contains(t, out, `"human_size":"150.0 B"`)
	assert.Contains(t, out, "test-run")
	assert.Contains(t, out, "d3.min.js")
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &PlainFormatter{}
	require.NoError(t, formatter.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "r/")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "50.0 B")
}

func TestPlainFormatterErrorEntry(t *testing.T) {
	result := sampleResult()
	result.Root.Children = append(result.Root.Children, &types.Entry{
		Name: "locked", Path: "/r/locked",
		HumanSize: "0 B", Kind: types.KindError, ErrorDetail: "permission denied",
	})

	var buf bytes.Buffer
	require.NoError(t, (&PlainFormatter{}).Format(&buf, result))
	assert.Contains(t, buf.String(), "locked [permission denied]")
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &PrettyFormatter{}
	require.NoError(t, formatter.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "/r")
	assert.Contains(t, out, "150.0 B")
	assert.Contains(t, out, "a.txt")
}

func TestPrettyFormatterInterrupted(t *testing.T) {
	result := sampleResult()
	result.Interrupted = true

	var buf bytes.Buffer
	require.NoError(t, (&PrettyFormatter{}).Format(&buf, result))
	assert.Contains(t, buf.String(), "interrupted")
}

func TestFormattersEmptyRoot(t *testing.T) {
	result := &Result{Source: "/empty", GeneratedAt: time.Now()}

	for _, name := range []string{"json", "pretty", "plain"} {
		formatter, err := Get(name)
		require.NoError(t, err)

		var buf bytes.Buffer
		assert.NoError(t, formatter.Format(&buf, result), "formatter %s", name)
	}
}
