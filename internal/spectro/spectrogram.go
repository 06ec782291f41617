package spectro

import (
	"errors"
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Defaults match the dashboard's spectrogram controls: a 256-point window
// with half-window overlap, capped at 128 points for larger windows.
const (
	DefaultWindowSize = 256
	maxDefaultOverlap = 128

	// epsilon keeps the log out of -Inf on silent bins.
	epsilon = 1e-10
)

// Options tunes the short-time transform. Zero values select defaults.
type Options struct {
	WindowSize int
	// Overlap is the number of samples shared by consecutive windows.
	// Negative means zero overlap; zero means the default rule.
	Overlap int
}

func (o Options) resolve() (windowSize, overlap int, err error) {
	windowSize = o.WindowSize
	if windowSize == 0 {
		windowSize = DefaultWindowSize
	}
	if windowSize < 2 {
		return 0, 0, fmt.Errorf("window size %d too small", windowSize)
	}

	switch {
	case o.Overlap == 0:
		overlap = windowSize / 2
		if overlap > maxDefaultOverlap {
			overlap = maxDefaultOverlap
		}
	case o.Overlap < 0:
		overlap = 0
	default:
		overlap = o.Overlap
	}
	if overlap >= windowSize {
		return 0, 0, fmt.Errorf("overlap %d must be smaller than window size %d", overlap, windowSize)
	}
	return windowSize, overlap, nil
}

// Spectrogram is a one-sided power spectral density estimate over time.
// Power is time-major: Power[frame][bin], in units of amplitude²/Hz.
type Spectrogram struct {
	SampleRate  int
	Frequencies []float64 // Hz, one per bin
	Times       []float64 // seconds, frame centers
	Power       [][]float64
}

// Hann returns a Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Compute runs a short-time FFT over the samples and returns density-scaled
// power: |X[k]|² / (fs · Σw²), with non-DC, non-Nyquist bins doubled to fold
// the negative frequencies into the one-sided spectrum.
func Compute(samples []float64, sampleRate int, opts Options) (*Spectrogram, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sample rate must be positive")
	}
	windowSize, overlap, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	if len(samples) < windowSize {
		return nil, fmt.Errorf("input of %d samples shorter than window size %d", len(samples), windowSize)
	}

	window := Hann(windowSize)
	var windowPower float64
	for _, w := range window {
		windowPower += w * w
	}
	scale := 1.0 / (float64(sampleRate) * windowPower)

	hop := windowSize - overlap
	bins := windowSize/2 + 1
	fs := float64(sampleRate)

	var power [][]float64
	var times []float64
	frame := make([]float64, windowSize)
	for start := 0; start+windowSize <= len(samples); start += hop {
		copy(frame, samples[start:start+windowSize])
		for i := 0; i < windowSize; i++ {
			frame[i] *= window[i]
		}

		spectrum := fft.FFTReal(frame)
		row := make([]float64, bins)
		for k := 0; k < bins; k++ {
			re, im := real(spectrum[k]), imag(spectrum[k])
			p := (re*re + im*im) * scale
			if k != 0 && k != windowSize/2 {
				p *= 2
			}
			row[k] = p
		}

		power = append(power, row)
		times = append(times, (float64(start)+float64(windowSize)/2)/fs)
	}

	frequencies := make([]float64, bins)
	for k := range frequencies {
		frequencies[k] = float64(k) * fs / float64(windowSize)
	}

	return &Spectrogram{
		SampleRate:  sampleRate,
		Frequencies: frequencies,
		Times:       times,
		Power:       power,
	}, nil
}

// ToDecibels converts a power grid to 10·log10(p + epsilon).
func ToDecibels(power [][]float64) [][]float64 {
	db := make([][]float64, len(power))
	for i, row := range power {
		out := make([]float64, len(row))
		for j, p := range row {
			out[j] = 10 * math.Log10(p+epsilon)
		}
		db[i] = out
	}
	return db
}
