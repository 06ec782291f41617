// Package plot builds chart specifications for the dashboard. A Figure
// marshals to the JSON shape plotly.js consumes directly, so the server
// hands fully-formed heatmap and line descriptions to the page and owns
// nothing about rendering.
package plot

import "encoding/json"

// Colorscale used by every heatmap in the dashboard.
const Colorscale = "Viridis"

// Figure is a renderable chart: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one heatmap or line in a figure. Fields irrelevant to the
// trace type stay zero and are omitted from the JSON.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	X             any         `json:"x,omitempty"`
	Y             any         `json:"y,omitempty"`
	Z             [][]float64 `json:"z,omitempty"`
	Colorscale    string      `json:"colorscale,omitempty"`
	ColorBar      *ColorBar   `json:"colorbar,omitempty"`
	ShowScale     *bool       `json:"showscale,omitempty"`
	ZMin          *float64    `json:"zmin,omitempty"`
	ZMax          *float64    `json:"zmax,omitempty"`
	XAxis         string      `json:"xaxis,omitempty"`
	YAxis         string      `json:"yaxis,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
}

// ColorBar titles the color scale legend.
type ColorBar struct {
	Title string `json:"title,omitempty"`
}

// Axis configures one layout axis.
type Axis struct {
	Title  string `json:"title,omitempty"`
	Type   string `json:"type,omitempty"`
	Anchor string `json:"anchor,omitempty"`
}

// Grid stacks subplots.
type Grid struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Pattern string `json:"pattern,omitempty"`
}

// Layout holds figure-level presentation. XAxis2/YAxis2 exist only for
// stacked two-channel spectrograms.
type Layout struct {
	Title      string `json:"title,omitempty"`
	XAxis      *Axis  `json:"xaxis,omitempty"`
	YAxis      *Axis  `json:"yaxis,omitempty"`
	XAxis2     *Axis  `json:"xaxis2,omitempty"`
	YAxis2     *Axis  `json:"yaxis2,omitempty"`
	Grid       *Grid  `json:"grid,omitempty"`
	Height     int    `json:"height,omitempty"`
	ShowLegend *bool  `json:"showlegend,omitempty"`
}

// Helpers for the optional scalar fields.
func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

// JSON renders the figure spec.
func (f *Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}
