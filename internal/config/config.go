package config

// Separation settings
const (
	ChunkSeconds = 30  // Length of one processing chunk in seconds of source audio
	MaskGain     = 2.0 // Logit gain for the vocal soft mask
	ChorusGain   = 1.0 // Gain applied to the side channel for the chorus stem
)

// Encoder settings
const (
	EncoderFrameSize = 1152 // Samples per MPEG-1 Layer III frame
	BitrateKbps      = 128  // Constant bitrate for every stem
	EncoderChannels  = 1    // Stems are encoded mono
	EncoderQuality   = 2    // LAME algorithm quality (0 best, 9 fastest)
)

// PCM scaling for 16-bit conversion
const (
	PCMNegativeScale = 0x8000
	PCMPositiveScale = 0x7FFF
	WAVBitDepth      = 16
)

// Encoder parallelism
const (
	// MaxParallelEncodes bounds how many stems are encoded at once.
	MaxParallelEncodes = 3
)

// ChunkSize returns the number of samples in one chunk at the given rate.
func ChunkSize(sampleRate int) int {
	return ChunkSeconds * sampleRate
}

// SupportedSampleRates lists the input rates MPEG audio layer III defines
// across MPEG-1, MPEG-2 and MPEG-2.5.
var SupportedSampleRates = []int{
	8000, 11025, 12000,
	16000, 22050, 24000,
	32000, 44100, 48000,
}

// IsSupportedSampleRate reports whether rate can be encoded without resampling.
func IsSupportedSampleRate(rate int) bool {
	for _, r := range SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}
