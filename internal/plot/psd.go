package plot

import (
	"fmt"
	"strconv"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/table"
)

// PSDHeatmap re-projects a precomputed power-spectral-density table as a
// heatmap: rows are time steps and columns are frequency bins, so the
// value matrix is transposed to put frequency on the vertical axis. No
// transform is applied to the values themselves.
func PSDHeatmap(t *table.Table) (*Figure, error) {
	if t.NumRows() == 0 || t.NumColumns() == 0 {
		return nil, fmt.Errorf("psd table is empty (%dx%d)", t.NumRows(), t.NumColumns())
	}

	return &Figure{
		Data: []Trace{{
			Type:       "heatmap",
			X:          t.Index,
			Y:          frequencyLabels(t.Columns),
			Z:          transpose(t.Values),
			Colorscale: Colorscale,
			ColorBar:   &ColorBar{Title: "Magnitude"},
		}},
		Layout: Layout{
			Title: "Hydrophone Power Spectral Density",
			XAxis: &Axis{Title: "Time"},
			YAxis: &Axis{Title: "Frequency (Hz)", Type: "log"},
		},
	}, nil
}

// frequencyLabels converts column labels to bin frequencies. Labels that
// are not numbers fall back to bin ordinals so the axis still renders.
func frequencyLabels(columns []string) []float64 {
	freqs := make([]float64, len(columns))
	for i, c := range columns {
		f, err := strconv.ParseFloat(c, 64)
		if err != nil {
			f = float64(i)
		}
		freqs[i] = f
	}
	return freqs
}
