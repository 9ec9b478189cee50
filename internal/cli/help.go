package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/stemfire/internal/stems"
)

var (
	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(FireOrange).
				MarginTop(1)

	helpTermStyle = lipgloss.NewStyle().
			Foreground(FireYellow).
			Bold(true)

	helpNoteStyle = lipgloss.NewStyle().
			Foreground(WarmGray).
			Italic(true)
)

// helpEntry is one row of a help section.
type helpEntry struct {
	term string
	help string
	note string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

// StyledHelpPrinter renders kong help in the fire palette, followed by the
// stem files a run produces.
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		sections := []helpSection{
			{title: "Arguments:", entries: positionalEntries(ctx.Model.Node)},
			{title: "Flags:", entries: flagEntries(ctx.Model.Node)},
			{title: "Stems:", entries: stemHelp("<input>")},
		}
		writeHelp(ctx.Stdout, ctx.Model.Name, sections)
		return nil
	}
}

func writeHelp(w io.Writer, name string, sections []helpSection) {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(AppName))
	sb.WriteString("\n")
	sb.WriteString(SubtitleStyle.Render(Tagline))
	sb.WriteString("\n")

	sb.WriteString(helpSectionStyle.Render("Usage:"))
	fmt.Fprintf(&sb, "\n  %s <input> [<output-dir>] [flags]\n", name)

	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(helpSectionStyle.Render(s.title))
		sb.WriteString("\n")

		width := 0
		for _, e := range s.entries {
			width = max(width, len(e.term))
		}
		for _, e := range s.entries {
			// Pad before styling so escape codes do not skew the columns
			sb.WriteString("  ")
			sb.WriteString(helpTermStyle.Render(fmt.Sprintf("%-*s", width, e.term)))
			sb.WriteString("  ")
			sb.WriteString(e.help)
			if e.note != "" {
				sb.WriteString(" ")
				sb.WriteString(helpNoteStyle.Render("(" + e.note + ")"))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	fmt.Fprint(w, sb.String())
}

func positionalEntries(node *kong.Node) []helpEntry {
	entries := make([]helpEntry, 0, len(node.Positional))
	for _, arg := range node.Positional {
		entries = append(entries, helpEntry{term: arg.Summary(), help: arg.Help})
	}
	return entries
}

func flagEntries(node *kong.Node) []helpEntry {
	entries := []helpEntry{{term: "-h, --help", help: "Show this help."}}
	for _, f := range node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}
		e := helpEntry{term: "--" + f.Name, help: f.Help}
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = f.Name
			}
			e.term += "=" + strings.ToUpper(placeholder)
			if f.HasDefault && f.Default != "" {
				e.note = "default: " + f.Default
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// stemHelp lists the files a run writes for an input named base.
func stemHelp(base string) []helpEntry {
	entries := make([]helpEntry, 0, len(stems.All))
	for _, kind := range stems.All {
		entries = append(entries, helpEntry{term: kind.Filename(base, "mp3"), help: kind.Title()})
	}
	return entries
}
