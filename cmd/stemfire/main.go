package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"

	"github.com/linuxmatters/stemfire/internal/cli"
	"github.com/linuxmatters/stemfire/internal/encoder"
	"github.com/linuxmatters/stemfire/internal/logging"
	"github.com/linuxmatters/stemfire/internal/separate"
	"github.com/linuxmatters/stemfire/internal/ui"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Input     string `arg:"" name:"input" help:"Input WAV, MP3 or FLAC file" optional:""`
	OutputDir string `arg:"" name:"output-dir" help:"Directory for the stems (default: <input>-stems beside the input)" optional:""`
	WAV       bool   `help:"Also write lossless 16-bit WAV stems"`
	Workers   int    `help:"Chunks to separate concurrently" default:"1"`
	NoTUI     bool   `name:"no-tui" help:"Log progress instead of drawing the progress UI"`
	Version   bool   `help:"Show version information"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("stemfire"),
		kong.Description(cli.Tagline),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if CLI.Input == "" {
		cli.PrintError("<input> is required")
		os.Exit(1)
	}
	if _, err := os.Stat(CLI.Input); os.IsNotExist(err) {
		cli.PrintError(fmt.Sprintf("input file does not exist: %s", CLI.Input))
		os.Exit(1)
	}
	if CLI.Workers < 1 {
		cli.PrintError(fmt.Sprintf("invalid workers value: %d (must be at least 1)", CLI.Workers))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := runConfig{
		input:     CLI.Input,
		outputDir: CLI.OutputDir,
		wav:       CLI.WAV,
		workers:   CLI.Workers,
		factory:   encoder.LameFactory,
		logger:    logging.New(),
	}

	var err error
	if !CLI.NoTUI && isTerminal(os.Stdout.Fd()) {
		err = runWithTUI(ctx, cancel, cfg)
	} else {
		err = runWithLog(ctx, cfg)
	}

	if err != nil {
		os.Exit(exitCode(err))
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runWithTUI drives the progress model while the pipeline runs alongside.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, cfg runConfig) error {
	model := ui.NewModel()
	p := tea.NewProgram(model)

	// The pipeline must not log over the TUI
	cfg.logger = logging.Discard()

	done := make(chan error, 1)
	go func() {
		complete, err := process(ctx, cfg, p)
		if err != nil {
			p.Send(ui.Failed{Err: err})
		} else {
			p.Send(*complete)
		}
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		cli.PrintError(fmt.Sprintf("running UI: %v", err))
		return err
	}

	// ctrl+c inside the TUI quits the program before the pipeline finishes
	cancel()
	err := <-done
	if err != nil {
		reportError(err)
	}
	return err
}

// runWithLog runs the pipeline with logrus progress and a plain summary.
func runWithLog(ctx context.Context, cfg runConfig) error {
	rep := &logReporter{log: cfg.logger}

	complete, err := process(ctx, cfg, rep)
	if err != nil {
		reportError(err)
		return err
	}

	lines := make([]cli.StemLine, 0, len(complete.Stems))
	for _, s := range complete.Stems {
		lines = append(lines, cli.StemLine{Title: s.Stem.Title(), Path: s.Path, Size: s.Size})
	}
	cli.PrintStemSummary(lines, complete.TotalTime, rep.speed(complete.TotalTime))
	return nil
}

func reportError(err error) {
	if isCanceled(err) {
		cli.PrintWarning("separation canceled")
		return
	}
	cli.PrintError(err.Error())
}

func isCanceled(err error) bool {
	return errors.Is(err, separate.ErrCanceled) || errors.Is(err, context.Canceled)
}

func exitCode(err error) int {
	if isCanceled(err) {
		return 130
	}
	return 1
}
