package plot

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/audio"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/spectro"
)

// WaveformSpectrogram computes a spectrogram per channel of the clip and
// lays the panels out as heatmaps, frequency vertical against time
// horizontal. Two-channel clips stack vertically on one shared color
// scale, with the legend on the first panel only.
func WaveformSpectrogram(clip *audio.Clip, opts spectro.Options) (*Figure, error) {
	if clip == nil || len(clip.Channels) == 0 {
		return nil, fmt.Errorf("clip has no channels")
	}

	var grids [][][]float64
	var times, freqs []float64
	for ch, samples := range clip.Channels {
		sp, err := spectro.Compute(samples, clip.SampleRate, opts)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		// Heatmap z rows follow the y axis, so flip time-major to freq-major.
		grids = append(grids, transpose(spectro.ToDecibels(sp.Power)))
		times, freqs = sp.Times, sp.Frequencies
	}

	// One color scale across all panels.
	zmin, zmax := gridRange(grids)

	fig := &Figure{}
	for ch, z := range grids {
		trace := Trace{
			Type:          "heatmap",
			Name:          fmt.Sprintf("Channel %d", ch),
			X:             times,
			Y:             freqs,
			Z:             z,
			Colorscale:    Colorscale,
			ZMin:          floatPtr(zmin),
			ZMax:          floatPtr(zmax),
			ShowScale:     boolPtr(ch == 0),
			HoverTemplate: fmt.Sprintf("Ch%d - Time: %%{x:.2f}s<br>Frequency: %%{y:.1f}Hz<br>Power: %%{z:.1f}dB<extra></extra>", ch),
		}
		if ch == 0 {
			trace.ColorBar = &ColorBar{Title: "Power (dB)"}
		} else {
			trace.XAxis = "x2"
			trace.YAxis = "y2"
		}
		fig.Data = append(fig.Data, trace)
	}

	fig.Layout = Layout{
		Title:  fmt.Sprintf("Spectrogram: %s", clip.Source),
		XAxis:  &Axis{Title: "Time (s)"},
		YAxis:  &Axis{Title: "Frequency (Hz)"},
		Height: 500,
	}
	if len(grids) == 2 {
		fig.Layout.Title = fmt.Sprintf("Stereo Spectrogram: %s", clip.Source)
		fig.Layout.XAxis2 = &Axis{Title: "Time (s)"}
		fig.Layout.YAxis2 = &Axis{Title: "Frequency (Hz)"}
		fig.Layout.Grid = &Grid{Rows: 2, Columns: 1, Pattern: "independent"}
		fig.Layout.Height = 800
	}

	return fig, nil
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for j := range out {
		row := make([]float64, len(m))
		for i := range m {
			row[i] = m[i][j]
		}
		out[j] = row
	}
	return out
}

func gridRange(grids [][][]float64) (zmin, zmax float64) {
	first := true
	for _, grid := range grids {
		for _, row := range grid {
			if len(row) == 0 {
				continue
			}
			lo, hi := floats.Min(row), floats.Max(row)
			if first {
				zmin, zmax = lo, hi
				first = false
				continue
			}
			zmin = min(zmin, lo)
			zmax = max(zmax, hi)
		}
	}
	return zmin, zmax
}
