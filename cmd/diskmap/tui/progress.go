package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// pollInterval is how often the display samples the scan counters.
const pollInterval = 100 * time.Millisecond

// Options configures the progress display.
type Options struct {
	// Root is the path being scanned, shown in the header.
	Root string

	// Progress returns a snapshot of the live scan counters.
	Progress func() types.ScanStats

	// Done is closed when the scan finishes.
	Done <-chan struct{}

	// OnInterrupt is called when the user cancels with Ctrl+C or q.
	OnInterrupt func()
}

// tickMsg triggers a counter sample.
type tickMsg time.Time

// doneMsg signals that the scan has finished.
type doneMsg struct{}

// model is the Bubble Tea model for the progress display.
type model struct {
	opts        Options
	stats       types.ScanStats
	spinner     spinner.Model
	width       int
	done        bool
	interrupted bool
}

// Run displays live scan progress until the scan completes. It blocks until
// the display exits.
func Run(opts Options) error {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	m := model{
		opts:    opts,
		spinner: s,
		width:   80,
	}

	_, err := tea.NewProgram(&m).Run()
	return err
}

// Init starts the spinner and the sampling loop.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick(), m.waitDone())
}

// tick schedules the next counter sample.
func (m *model) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitDone waits for the scan to finish.
func (m *model) waitDone() tea.Cmd {
	return func() tea.Msg {
		<-m.opts.Done
		return doneMsg{}
	}
}

// Update handles messages for the progress display.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.interrupted = true
			if m.opts.OnInterrupt != nil {
				m.opts.OnInterrupt()
			}
			return m, nil
		}
		return m, nil

	case tickMsg:
		m.stats = m.opts.Progress()
		return m, m.tick()

	case doneMsg:
		m.done = true
		m.stats = m.opts.Progress()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m *model) View() string {
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder

	title := titleStyle.Render("diskmap")
	hint := mutedTextStyle.Render("[Ctrl+C to stop]")
	spacing := contentWidth - lipgloss.Width(title) - lipgloss.Width(hint)
	if spacing < 1 {
		spacing = 1
	}
	b.WriteString(title + strings.Repeat(" ", spacing) + hint)
	b.WriteString("\n\n")

	switch {
	case m.interrupted:
		b.WriteString(errorTextStyle.Render("Stopping..."))
	case m.done:
		b.WriteString(successTextStyle.Render("Scan complete"))
	default:
		b.WriteString(fmt.Sprintf("%s Scanning %s", m.spinner.View(), m.opts.Root))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderStats(contentWidth))
	b.WriteString("\n")

	return outerBoxStyle.Width(contentWidth + 2).Render(b.String())
}

// renderStats renders the counter boxes.
func (m *model) renderStats(totalWidth int) string {
	boxWidth := (totalWidth - 8) / 4
	if boxWidth < 10 {
		boxWidth = 10
	}

	filesBox := m.renderStatBox("Files", humanize.Comma(m.stats.FilesProcessed), boxWidth)
	dirsBox := m.renderStatBox("Dirs", humanize.Comma(m.stats.DirsProcessed), boxWidth)
	sizeBox := m.renderStatBox("Size", types.FormatSize(m.stats.BytesCounted), boxWidth)
	timeBox := m.renderStatBox("Time", formatDuration(m.stats.Elapsed), boxWidth)

	return lipgloss.JoinHorizontal(lipgloss.Top, filesBox, " ", dirsBox, " ", sizeBox, " ", timeBox)
}

// renderStatBox renders a single counter box.
func (m *model) renderStatBox(label, value string, width int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		center(statsLabelStyle.Render(label), width-4),
		center(statsValueStyle.Render(value), width-4))
	return statsBoxStyle.Width(width).Render(content)
}

// center pads a string to center it within the given width.
func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	right := width - w - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// formatDuration formats a duration as M:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
