package output

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Tree  *types.Entry `json:"tree"`
	Stats jsonStats    `json:"stats"`
	Meta  jsonMeta     `json:"meta"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	FilesProcessed int64  `json:"files_processed"`
	DirsProcessed  int64  `json:"dirs_processed"`
	Errors         int64  `json:"errors"`
	BytesCounted   int64  `json:"bytes_counted"`
	Elapsed        string `json:"elapsed"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Source      string `json:"source"`
	RunID       string `json:"run_id"`
	TotalSize   int64  `json:"total_size"`
	TotalHuman  string `json:"total_human"`
	GeneratedAt string `json:"generated_at"`
	Interrupted bool   `json:"interrupted"`
}

// JSONFormatter formats output as a single indented JSON object with the
// full nested tree plus stats and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.buildOutput(r))
}

// buildOutput converts Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	var totalSize int64
	if r.Root != nil {
		totalSize = r.Root.Size
	}

	return jsonOutput{
		Tree: r.Root,
		Stats: jsonStats{
			FilesProcessed: r.Stats.FilesProcessed,
			DirsProcessed:  r.Stats.DirsProcessed,
			Errors:         r.Stats.Errors,
			BytesCounted:   r.Stats.BytesCounted,
			Elapsed:        r.Stats.Elapsed.String(),
		},
		Meta: jsonMeta{
			Source:      r.Source,
			RunID:       r.RunID,
			TotalSize:   totalSize,
			TotalHuman:  types.FormatSize(totalSize),
			GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
			Interrupted: r.Interrupted,
		},
	}
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
