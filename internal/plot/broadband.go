package plot

import (
	"fmt"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/table"
)

// BroadbandLines renders a broadband-level table as a single line trace
// of the first value column over the time index.
func BroadbandLines(t *table.Table) (*Figure, error) {
	if t.NumRows() == 0 || t.NumColumns() == 0 {
		return nil, fmt.Errorf("broadband table is empty (%dx%d)", t.NumRows(), t.NumColumns())
	}

	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "lines",
			Name: "Broadband Level",
			X:    t.Index,
			Y:    t.Column(0),
		}},
		Layout: Layout{
			Title: "Broadband Noise Levels",
			XAxis: &Axis{Title: "Time"},
			YAxis: &Axis{Title: "Relative Decibels"},
		},
	}, nil
}
