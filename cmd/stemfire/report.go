package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/linuxmatters/stemfire/internal/logging"
	"github.com/linuxmatters/stemfire/internal/ui"
)

// logReporter turns progress messages into log lines when there is no
// terminal to draw on.
type logReporter struct {
	log      logging.Logger
	duration time.Duration
}

func (r *logReporter) Send(msg tea.Msg) {
	switch m := msg.(type) {
	case ui.InputProfile:
		r.duration = m.Duration
		r.log.WithFields(logrus.Fields{
			"file":        m.Filename,
			"duration":    m.Duration.Round(time.Millisecond),
			"sample_rate": m.SampleRate,
			"channels":    m.Channels,
		}).Info("decoded input")
	case ui.SeparationProgress:
		r.log.Debugf("separated chunk %d of %d", m.Chunk, m.TotalChunks)
	case ui.SeparationComplete:
		r.log.Infof("separated %d chunks in %s", m.Chunks, m.Elapsed.Round(time.Millisecond))
	case ui.EncodeProgress:
		if m.Done {
			r.log.Infof("encoded %s stem", m.Stem)
		}
	}
}

// speed is the realtime factor for a run that took total.
func (r *logReporter) speed(total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(r.duration) / float64(total)
}
