package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase names the stage of the pipeline currently running.
type Phase int

const (
	PhaseExactDedup Phase = iota
	PhaseNormalize
	PhaseSigning
	PhaseIndexing
	PhaseClustering
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseExactDedup:
		return "Bloom exact-dedup pass"
	case PhaseNormalize:
		return "Normalizing documents"
	case PhaseSigning:
		return "Computing MinHash signatures"
	case PhaseIndexing:
		return "Building LSH index"
	case PhaseClustering:
		return "Clustering candidates"
	case PhaseDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// ProgressMsg carries a progress update from the indexing goroutine into
// the bubbletea event loop.
type ProgressMsg struct {
	Phase     Phase
	Completed int
	Total     int
}

// TickMsg drives the spinner animation.
type TickMsg time.Time

// Dashboard is the bubbletea model for an indexing run's progress view.
type Dashboard struct {
	width int

	phase     Phase
	completed int
	total     int

	clustersFound int
	exactDupes    int

	frame int
	done  bool

	updates <-chan ProgressMsg
}

// NewDashboard creates a Dashboard that reads progress updates from
// updates until the channel closes.
func NewDashboard(updates <-chan ProgressMsg) *Dashboard {
	return &Dashboard{width: 72, updates: updates}
}

// SetSummary records final counts once clustering completes.
func (d *Dashboard) SetSummary(clustersFound, exactDupes int) {
	d.clustersFound = clustersFound
	d.exactDupes = exactDupes
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForProgress(updates <-chan ProgressMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return ProgressMsg{Phase: PhaseDone}
		}
		return msg
	}
}

// Init starts the spinner and the channel listener.
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForProgress(d.updates))
}

// Update handles bubbletea messages.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return d, tea.Quit
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width

	case TickMsg:
		d.frame = (d.frame + 1) % len(SpinnerChars)
		if d.done {
			return d, nil
		}
		return d, tickCmd()

	case ProgressMsg:
		d.phase = msg.Phase
		d.completed = msg.Completed
		d.total = msg.Total
		if msg.Phase == PhaseDone {
			d.done = true
			return d, nil
		}
		return d, waitForProgress(d.updates)
	}
	return d, nil
}

// View renders the dashboard.
func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("near-duplicate indexing"))
	b.WriteString("\n\n")

	status := d.phase.String()
	if d.done {
		b.WriteString(DoneStyle.Render("✓ " + status))
	} else {
		b.WriteString(RunningStyle.Render(SpinnerChars[d.frame] + " " + status))
	}
	b.WriteString("\n\n")

	b.WriteString(renderBar(d.completed, d.total, d.width-10))
	b.WriteString("\n\n")

	b.WriteString(RenderLabelValue("Documents", fmt.Sprintf("%d / %d", d.completed, d.total)))
	if d.done {
		b.WriteString(RenderLabelValue("Exact duplicates", fmt.Sprintf("%d", d.exactDupes)))
		b.WriteString(RenderLabelValue("Clusters found", fmt.Sprintf("%d", d.clustersFound)))
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("press q to quit"))

	return PanelStyle.Width(d.width).Render(b.String())
}

// Run drives d through bubbletea's alt-screen event loop until the user
// quits with q or ctrl+c. A PhaseDone update or a closed updates channel
// marks the run done but does not end the loop.
func Run(d *Dashboard) error {
	p := tea.NewProgram(d, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func renderBar(completed, total, width int) string {
	if width < 10 {
		width = 10
	}
	var pct float64
	if total > 0 {
		pct = float64(completed) / float64(total)
	}
	filled := int(float64(width) * pct)
	if filled > width {
		filled = width
	}
	empty := width - filled

	var b strings.Builder
	b.WriteString(ProgressFullStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat("░", empty)))
	b.WriteString(fmt.Sprintf(" %5.1f%%", pct*100))
	return b.String()
}
