// Package stems names the three separated tracks and keeps their encoded
// streams addressable for playback and download consumers.
package stems

import "fmt"

// Kind identifies one of the three derived tracks.
type Kind int

const (
	Vocal Kind = iota
	Instrument
	Chorus
)

// All lists every stem in output order.
var All = []Kind{Vocal, Instrument, Chorus}

// String returns the short lowercase name used in logs and errors.
func (k Kind) String() string {
	switch k {
	case Vocal:
		return "vocal"
	case Instrument:
		return "instrument"
	case Chorus:
		return "chorus"
	}
	return fmt.Sprintf("stem(%d)", int(k))
}

// Title is the human-readable label shown next to a player.
func (k Kind) Title() string {
	switch k {
	case Vocal:
		return "Vocals (Center Channel)"
	case Instrument:
		return "Instruments (Karaoke/Side)"
	case Chorus:
		return "Chorus / Backing (Boosted Side)"
	}
	return k.String()
}

// Color is the accent colour players use for this stem's waveform.
func (k Kind) Color() string {
	switch k {
	case Vocal:
		return "#BB86FC"
	case Instrument:
		return "#03DAC6"
	case Chorus:
		return "#FF0266"
	}
	return "#888888"
}

// Filename suggests a download name, e.g. "song-vocals.mp3".
func (k Kind) Filename(base, ext string) string {
	suffix := map[Kind]string{
		Vocal:      "vocals",
		Instrument: "instruments",
		Chorus:     "chorus",
	}[k]
	if suffix == "" {
		suffix = k.String()
	}
	if base == "" {
		base = "stem"
	}
	return fmt.Sprintf("%s-%s.%s", base, suffix, ext)
}
