package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// PlainFormatter formats the tree as unstyled indented text, one entry per
// line with its size. Suitable for piping to other tools.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	if r.Root == nil {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	f.writeEntry(tw, r.Root, 0)
	return tw.Flush()
}

// writeEntry emits one entry row and recurses into children.
func (f *PlainFormatter) writeEntry(tw *tabwriter.Writer, entry *types.Entry, depth int) {
	name := entry.Name
	switch entry.Kind {
	case types.KindDirectory:
		name += "/"
	case types.KindError:
		name += " [" + entry.ErrorDetail + "]"
	}

	fmt.Fprintf(tw, "%s\t%s%s\n", entry.HumanSize, strings.Repeat("  ", depth), name)

	for _, child := range entry.Children {
		f.writeEntry(tw, child, depth+1)
	}
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
