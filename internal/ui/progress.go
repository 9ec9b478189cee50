package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/stemfire/internal/audio"
	"github.com/linuxmatters/stemfire/internal/stems"
)

// Fire colour palette 🔥
var (
	fireYellow  = lipgloss.Color("#FFD700")
	fireOrange  = lipgloss.Color("#FF8C00")
	fireRed     = lipgloss.Color("#FF4500")
	fireCrimson = lipgloss.Color("#DC143C")
	emberGlow   = lipgloss.Color("#8B0000")

	warmGray = lipgloss.Color("#B8860B")
)

// Phase represents the current processing phase
type Phase int

const (
	PhaseSeparating Phase = iota
	PhaseEncoding
	PhaseComplete
	PhaseFailed
)

// InputProfile describes the decoded source, sent once before separation
type InputProfile struct {
	Filename   string
	Duration   time.Duration
	SampleRate int
	Channels   int
	Levels     audio.LevelProfile
	DecodeTime time.Duration
}

// SeparationProgress is sent after each chunk is assembled
type SeparationProgress struct {
	Chunk       int
	TotalChunks int
	Elapsed     time.Duration
}

// SeparationComplete moves the model to the encoding phase
type SeparationComplete struct {
	Chunks  int
	Elapsed time.Duration
}

// EncodeProgress reports frames encoded for one stem
type EncodeProgress struct {
	Stem        stems.Kind
	Frame       int
	TotalFrames int
	Done        bool
}

// StemSummary is one line of the completion report
type StemSummary struct {
	Stem   stems.Kind
	Path   string
	Size   int64
	Levels audio.LevelProfile
}

// Complete signals that every stem has been written
type Complete struct {
	OutputDir    string
	Stems        []StemSummary
	SeparateTime time.Duration
	EncodeTime   time.Duration
	WriteTime    time.Duration
	TotalTime    time.Duration
}

// Failed stops the UI with an error
type Failed struct {
	Err error
}

// progressQuitMsg is sent when it's time to quit after showing completion
type progressQuitMsg struct{}

// Model implements the Bubbletea model for the whole run
type Model struct {
	progressBar progress.Model
	summaryBar  progress.Model
	phase       Phase

	input      *InputProfile
	separation SeparationProgress
	encodes    map[stems.Kind]EncodeProgress
	complete   *Complete
	failed     error

	overallStartTime time.Time
	encodeStartTime  time.Time

	width           int
	completionDelay time.Duration
}

// NewModel creates a new progress UI model
func NewModel() *Model {
	// Fire gradient: deep red → orange → yellow
	p := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	summaryBar := progress.New(
		progress.WithGradient(string(fireCrimson), string(fireYellow)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &Model{
		progressBar:      p,
		summaryBar:       summaryBar,
		phase:            PhaseSeparating,
		encodes:          make(map[stems.Kind]EncodeProgress),
		overallStartTime: time.Now(),
		completionDelay:  2 * time.Second,
	}
}

// Phase returns the current phase
func (m *Model) Phase() Phase {
	return m.phase
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = min(msg.Width-30, 50)
		return m, nil

	case InputProfile:
		m.input = &msg
		return m, nil

	case SeparationProgress:
		m.separation = msg
		return m, nil

	case SeparationComplete:
		m.separation.Chunk = msg.Chunks
		m.separation.TotalChunks = msg.Chunks
		m.separation.Elapsed = msg.Elapsed
		m.phase = PhaseEncoding
		m.encodeStartTime = time.Now()
		return m, nil

	case EncodeProgress:
		m.encodes[msg.Stem] = msg
		return m, nil

	case Complete:
		m.complete = &msg
		m.phase = PhaseComplete
		return m, tea.Tick(m.completionDelay, func(t time.Time) tea.Msg {
			return progressQuitMsg{}
		})

	case Failed:
		m.failed = msg.Err
		m.phase = PhaseFailed
		return m, tea.Quit

	case progressQuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if m.complete != nil {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	switch m.phase {
	case PhaseComplete:
		return m.renderComplete()
	case PhaseFailed:
		return ""
	}
	return m.renderProgress()
}

// CompletionSummary returns the final summary for printing after the alt
// screen exits, or "" if the run did not complete.
func (m *Model) CompletionSummary() string {
	if m.complete == nil {
		return ""
	}
	return m.renderComplete()
}

func (m *Model) renderHeader(s *strings.Builder, phaseLabel string) {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fireYellow).
		Render("Stemfire 🔥")

	s.WriteString(title)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Foreground(fireOrange).Render(phaseLabel))
	s.WriteString("\n\n")
}

func (m *Model) renderProgress() string {
	var s strings.Builder

	if m.phase == PhaseSeparating {
		m.renderHeader(&s, "Pass 1: Separating Stems")
		m.renderSeparationProgress(&s)
	} else {
		m.renderHeader(&s, "Pass 2: Encoding Stems")
		m.renderEncodeProgress(&s)
	}

	s.WriteString("\n")
	m.renderInputProfile(&s)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireRed).
		Padding(1, 2).
		Render(s.String())
}

func (m *Model) renderSeparationProgress(s *strings.Builder) {
	if m.separation.TotalChunks == 0 {
		s.WriteString(lipgloss.NewStyle().Faint(true).Render("Starting separation...\n\n"))
		return
	}

	percent := float64(m.separation.Chunk) / float64(m.separation.TotalChunks)
	s.WriteString("Progress: ")
	s.WriteString(m.progressBar.ViewAs(percent))
	s.WriteString(fmt.Sprintf("  %d%%", int(percent*100)))
	s.WriteString("\n\n")

	elapsed := m.separation.Elapsed
	var estimatedTotal, eta time.Duration
	var speed float64
	if percent > 0 {
		estimatedTotal = time.Duration(float64(elapsed) / percent)
		eta = estimatedTotal - elapsed
		if m.input != nil && elapsed > 0 {
			speed = float64(m.input.Duration) * percent / float64(elapsed)
		}
	}

	timingInfo := fmt.Sprintf("Time: %s / %s  │  Speed: %.1fx realtime  │  ETA: %s",
		formatDuration(elapsed),
		formatDuration(estimatedTotal),
		speed,
		formatDuration(eta))
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(timingInfo))
	s.WriteString("\n")

	chunkInfo := fmt.Sprintf("Chunk %d of %d", m.separation.Chunk, m.separation.TotalChunks)
	s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render(chunkInfo))
	s.WriteString("\n")
}

func (m *Model) renderEncodeProgress(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Foreground(warmGray)

	for _, kind := range stems.All {
		p, ok := m.encodes[kind]
		ratio := 0.0
		status := "waiting"
		switch {
		case ok && p.Done:
			ratio = 1
			status = "done"
		case ok && p.TotalFrames > 0:
			ratio = float64(p.Frame) / float64(p.TotalFrames)
			status = fmt.Sprintf("%d%%", int(ratio*100))
		}

		s.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", kind.String())))
		s.WriteString(makeGradientBar(ratio, 30))
		s.WriteString("  ")
		s.WriteString(status)
		s.WriteString("\n")
	}

	elapsed := time.Since(m.encodeStartTime)
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("Encoding: %s", formatDuration(elapsed))))
	s.WriteString("\n")
}

func (m *Model) renderInputProfile(s *strings.Builder) {
	labelStyle := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Faint(true).Bold(true)

	s.WriteString(headerStyle.Render("Input"))
	s.WriteString(" │ ")

	if m.input == nil {
		s.WriteString(lipgloss.NewStyle().Faint(true).Italic(true).Render("Decoding..."))
		return
	}

	s.WriteString(fmt.Sprintf("%.1fs", m.input.Duration.Seconds()))
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("Rate:"))
	s.WriteString(fmt.Sprintf(" %d Hz", m.input.SampleRate))
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("Channels:"))
	s.WriteString(fmt.Sprintf(" %d", m.input.Channels))
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("Peak:"))
	s.WriteString(" " + formatDB(m.input.Levels.PeakDBFS()))
	s.WriteString("  ")
	s.WriteString(labelStyle.Render("RMS:"))
	s.WriteString(" " + formatDB(m.input.Levels.RMSDBFS()))
}

func (m *Model) renderComplete() string {
	var s strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(fireYellow).
		Render("✓ Stems Complete!")

	s.WriteString(title)
	s.WriteString("\n\n")

	dimLabel := lipgloss.NewStyle().Faint(true)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(fireOrange)
	labelStyle := lipgloss.NewStyle().Faint(true)
	valueStyle := lipgloss.NewStyle()
	highlightValueStyle := lipgloss.NewStyle().Foreground(fireOrange)

	s.WriteString(fmt.Sprintf("%s%s\n", dimLabel.Render("Output:   "), m.complete.OutputDir))
	if m.input != nil {
		s.WriteString(fmt.Sprintf("%s%s, %.1fs at %d Hz\n",
			dimLabel.Render("Input:    "),
			filepath.Base(m.input.Filename),
			m.input.Duration.Seconds(),
			m.input.SampleRate))
	}
	if m.separation.TotalChunks > 0 {
		s.WriteString(fmt.Sprintf("%s%d\n", dimLabel.Render("Chunks:   "), m.separation.TotalChunks))
	}
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Stems"))
	s.WriteString("\n")
	for _, st := range m.complete.Stems {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(st.Stem.Color())).Render(fmt.Sprintf("%-34s", st.Stem.Title()))
		s.WriteString(fmt.Sprintf("  %s%s  %s  %s\n",
			name,
			valueStyle.Render(fmt.Sprintf("%-9s", formatBytes(st.Size))),
			labelStyle.Render("peak "+formatDB(st.Levels.PeakDBFS())),
			labelStyle.Render("rms "+formatDB(st.Levels.RMSDBFS()))))
		s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-34s", "")), labelStyle.Render(filepath.Base(st.Path))))
		if st.Levels.ClippedSamples > 0 {
			s.WriteString(lipgloss.NewStyle().Foreground(fireRed).Render(
				fmt.Sprintf("  %d samples clamped", st.Levels.ClippedSamples)))
		}
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(headerStyle.Render("Performance"))
	s.WriteString("\n")

	totalMs := m.complete.TotalTime.Milliseconds()
	if totalMs == 0 {
		totalMs = 1
	}

	rows := []struct {
		label string
		d     time.Duration
	}{
		{"Decoding:", m.decodeTime()},
		{"Separation:", m.complete.SeparateTime},
		{"Encoding:", m.complete.EncodeTime},
		{"Writing:", m.complete.WriteTime},
	}
	for _, row := range rows {
		if row.d <= 0 {
			continue
		}
		ratio := float64(row.d.Milliseconds()) / float64(totalMs)
		s.WriteString(fmt.Sprintf("  %s%s (~%2d%%)  %s\n",
			labelStyle.Render(fmt.Sprintf("%-18s", row.label)),
			valueStyle.Render(fmt.Sprintf("~%-6s", formatDuration(row.d))),
			int(ratio*100),
			makeSparkline(ratio, 30)))
	}

	s.WriteString(fmt.Sprintf("  %s%s", labelStyle.Render(fmt.Sprintf("%-18s", "Total time:")), highlightValueStyle.Render(formatDuration(m.complete.TotalTime))))

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(fireOrange).
		Padding(1, 1).
		Render(s.String()) + "\n"
}

func (m *Model) decodeTime() time.Duration {
	if m.input == nil {
		return 0
	}
	return m.input.DecodeTime
}

// Helper functions

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

func formatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

func makeSparkline(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}

	var result strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i) / float64(width)
			var color lipgloss.Color
			switch {
			case pos < 0.25:
				color = emberGlow
			case pos < 0.5:
				color = fireCrimson
			case pos < 0.75:
				color = fireOrange
			default:
				color = fireYellow
			}
			result.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		} else {
			result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")).Render("░"))
		}
	}

	return result.String()
}

// makeGradientBar draws a small fire-gradient bar for per-stem progress
func makeGradientBar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	gradientColors := []lipgloss.Color{
		lipgloss.Color("#8B0000"),
		lipgloss.Color("#A52A2A"),
		lipgloss.Color("#CD5C5C"),
		lipgloss.Color("#DC143C"),
		lipgloss.Color("#FF6347"),
		lipgloss.Color("#FF7F50"),
		lipgloss.Color("#FFA07A"),
		lipgloss.Color("#FFD700"),
	}

	var result strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i) / float64(width)
			colorIdx := int(pos * float64(len(gradientColors)-1))
			if colorIdx >= len(gradientColors) {
				colorIdx = len(gradientColors) - 1
			}
			result.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render("█"))
		} else {
			result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#2A2A2A")).Render("░"))
		}
	}

	return result.String()
}
