package stream

import "github.com/jonas747/dca"

const (
	bitrate = 96

	// ffmpeg's -vol value for unchanged loudness.
	unityVolume = 256
)

// ScaleVolume maps a 0-100 percentage onto the encoder's volume scale.
func ScaleVolume(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return unityVolume * percent / 100
}

// EncodeOptions returns a private copy of the standard options tuned for voice playback.
func EncodeOptions(volume int) *dca.EncodeOptions {
	opts := *dca.StdEncodeOptions
	opts.RawOutput = true
	opts.Bitrate = bitrate
	opts.Application = dca.AudioApplicationLowDelay
	opts.Volume = ScaleVolume(volume)
	return &opts
}
