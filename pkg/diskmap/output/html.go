package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"
)

//go:embed template.html
var htmlTemplate string

// htmlData is the data passed to the HTML template.
type htmlData struct {
	Source      string
	RunID       string
	GeneratedAt string
	TreeJSON    string
}

// HTMLFormatter renders the tree as a self-contained interactive
// visualization page. The finalized tree is serialized into the page as a
// JSON literal consumed by the embedded chart script.
type HTMLFormatter struct {
	template *template.Template
}

// Format writes the formatted output to the buffer.
func (f *HTMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	if f.template == nil {
		tmpl, err := template.New("html").Parse(htmlTemplate)
		if err != nil {
			return fmt.Errorf("parse template: %w", err)
		}
		f.template = tmpl
	}

	treeJSON, err := json.Marshal(r.Root)
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}

	generated := r.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	return f.template.Execute(w, htmlData{
		Source:      r.Source,
		RunID:       r.RunID,
		GeneratedAt: generated.Format(time.RFC3339),
		TreeJSON:    string(treeJSON),
	})
}

func init() {
	Register("html", func() Formatter {
		return &HTMLFormatter{}
	})
}

// Ensure HTMLFormatter implements Formatter.
var _ Formatter = (*HTMLFormatter)(nil)
