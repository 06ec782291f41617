package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
)

// Clip is a decoded recording: normalized samples in [-1, 1], one slice
// per channel. Hydrophone deployments record mono or stereo.
type Clip struct {
	Source     string
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumFrames returns the number of samples per channel.
func (c *Clip) NumFrames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Duration returns the clip length derived from frame count and rate.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	seconds := float64(c.NumFrames()) / float64(c.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// ReadWAV decodes a PCM WAV file into per-channel normalized samples.
func ReadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading samples from %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("wav file %s: missing format", path)
	}

	numChans := buf.Format.NumChannels
	if numChans < 1 || numChans > 2 {
		return nil, fmt.Errorf("wav file %s: unsupported channel count %d", path, numChans)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("wav file %s: unsupported bit depth %d", path, bitDepth)
	}

	// Normalize to [-1, 1] by the source bit depth, deinterleaving as we go.
	scale := 1.0 / float64(int64(1)<<(uint(bitDepth)-1))
	frames := len(buf.Data) / numChans
	channels := make([][]float64, numChans)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < numChans; ch++ {
			channels[ch][i] = float64(buf.Data[i*numChans+ch]) * scale
		}
	}

	return &Clip{
		Source:     filepath.Base(path),
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   channels,
	}, nil
}
