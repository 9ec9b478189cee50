package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/linuxmatters/stemfire/internal/audio"
	"github.com/linuxmatters/stemfire/internal/encoder"
	"github.com/linuxmatters/stemfire/internal/logging"
	"github.com/linuxmatters/stemfire/internal/separate"
	"github.com/linuxmatters/stemfire/internal/stems"
	"github.com/linuxmatters/stemfire/internal/ui"
)

// reporter receives progress messages. *tea.Program satisfies it.
type reporter interface {
	Send(msg tea.Msg)
}

type runConfig struct {
	input     string
	outputDir string
	wav       bool
	workers   int
	factory   encoder.Factory
	logger    logging.Logger
}

// baseName is the input filename without directory or extension.
func baseName(input string) string {
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

// resolveOutputDir defaults to "<base>-stems" beside the input.
func resolveOutputDir(input, outputDir string) string {
	if outputDir != "" {
		return outputDir
	}
	return filepath.Join(filepath.Dir(input), baseName(input)+"-stems")
}

// process decodes, separates, encodes and writes every stem.
func process(ctx context.Context, cfg runConfig, rep reporter) (*ui.Complete, error) {
	start := time.Now()
	base := baseName(cfg.input)
	outDir := resolveOutputDir(cfg.input, cfg.outputDir)

	w, err := audio.DecodeFile(cfg.input)
	if err != nil {
		return nil, err
	}
	decodeTime := time.Since(start)

	rep.Send(ui.InputProfile{
		Filename:   cfg.input,
		Duration:   w.Duration(),
		SampleRate: w.SampleRate,
		Channels:   w.NumChannels(),
		Levels:     audio.AnalyzeLevels(w.Left()),
		DecodeTime: decodeTime,
	})

	separateStart := time.Now()
	done := 0
	res, err := separate.Separate(ctx, w,
		separate.WithWorkers(cfg.workers),
		separate.WithLogger(cfg.logger),
		separate.WithProgress(func(p separate.Progress) {
			done++
			rep.Send(ui.SeparationProgress{Chunk: done, TotalChunks: p.TotalChunks, Elapsed: p.Elapsed})
		}),
	)
	if err != nil {
		return nil, err
	}
	separateTime := time.Since(separateStart)
	rep.Send(ui.SeparationComplete{Chunks: res.Chunks, Elapsed: separateTime})

	encodeStart := time.Now()
	streams, err := encoder.EncodeStems(ctx, res, res.SampleRate, cfg.factory,
		encoder.WithProgress(func(p encoder.Progress) {
			rep.Send(ui.EncodeProgress{Stem: p.Stem, Frame: p.Frame, TotalFrames: p.TotalFrames, Done: p.Done})
		}),
	)
	if err != nil {
		return nil, err
	}
	encodeTime := time.Since(encodeStart)

	writeStart := time.Now()
	store := stems.NewStore()
	for _, s := range streams {
		store.Put(s.Stem, s.Stem.Filename(base, "mp3"), stems.ContentTypeMP3, s.Bytes())
	}
	if _, err := store.Export(outDir); err != nil {
		return nil, err
	}

	if cfg.wav {
		for _, kind := range stems.All {
			path := filepath.Join(outDir, kind.Filename(base, "wav"))
			if err := encoder.WriteWAVFile(path, res.Stem(kind), res.SampleRate); err != nil {
				return nil, &encoder.StemError{Stem: kind, Err: errors.Wrap(err, "wav export")}
			}
		}
	}

	complete := &ui.Complete{
		OutputDir:    outDir,
		SeparateTime: separateTime,
		EncodeTime:   encodeTime,
		WriteTime:    time.Since(writeStart),
	}
	for _, e := range store.Entries() {
		complete.Stems = append(complete.Stems, ui.StemSummary{
			Stem:   e.Kind,
			Path:   filepath.Join(outDir, e.Filename),
			Size:   e.Size(),
			Levels: audio.AnalyzeLevels(res.Stem(e.Kind)),
		})
	}
	complete.TotalTime = time.Since(start)

	cfg.logger.WithFields(logrus.Fields{
		"output":  outDir,
		"chunks":  res.Chunks,
		"elapsed": complete.TotalTime,
	}).Debug("stems written")

	return complete, nil
}
