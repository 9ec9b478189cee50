package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AppName and Tagline appear in the banner, version and help output.
const (
	AppName = "Stemfire 🔥"
	Tagline = "Split a stereo mix into vocal, karaoke and chorus stems, encoded to MP3."
)

// Fire colour palette 🔥
// Shared with the TUI so CLI and progress output look alike
var (
	FireYellow  = lipgloss.Color("#FFD700")
	FireOrange  = lipgloss.Color("#FF8C00")
	FireRed     = lipgloss.Color("#FF4500")
	FireCrimson = lipgloss.Color("#DC143C")

	WarmGray = lipgloss.Color("#B8860B")
)

var (
	successColor = lipgloss.Color("#00AA00")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireYellow).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireOrange).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireCrimson)

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FireYellow)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FireOrange).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// Output is where the Print helpers write; tests swap it out.
var Output io.Writer = os.Stdout

// ErrOutput receives PrintError messages.
var ErrOutput io.Writer = os.Stderr

// PrintBanner prints the application banner
func PrintBanner() {
	fmt.Fprintln(Output, TitleStyle.Render(AppName))
	fmt.Fprintln(Output, SubtitleStyle.Render(Tagline))
	fmt.Fprintln(Output)
}

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Fprintln(Output, TitleStyle.Render(AppName))
	fmt.Fprintf(Output, "%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Fprintln(Output)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(ErrOutput, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", HighlightStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints a key/value line
func PrintInfo(key, value string) {
	fmt.Fprintf(Output, "%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(Output, HeaderStyle.Render(title))
}

// PrintBox prints content in a styled box
func PrintBox(content string) {
	fmt.Fprintln(Output, BoxStyle.Render(content))
}

// FormatDuration formats a duration nicely
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed formats processing speed relative to playback
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// StemLine is one row of PrintStemSummary.
type StemLine struct {
	Title string
	Path  string
	Size  int64
}

// PrintStemSummary prints the written stems in a box, for runs without the
// TUI.
func PrintStemSummary(stemLines []StemLine, total time.Duration, speed float64) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Stems Complete!"))
	b.WriteString("\n\n")

	for _, line := range stemLines {
		b.WriteString(KeyStyle.Render(fmt.Sprintf("%-32s", line.Title)))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%-10s", FormatBytes(line.Size))))
		b.WriteString(line.Path)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(KeyStyle.Render("Time:  "))
	b.WriteString(ValueStyle.Render(FormatDuration(total)))
	b.WriteString("\n")
	b.WriteString(KeyStyle.Render("Speed: "))
	b.WriteString(ValueStyle.Render(FormatSpeed(speed)))

	PrintBox(b.String())
}
