package main

import (
	"fmt"
	"time"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/catalog"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/plot"
)

// RangeQuery carries one interaction's filter selection: location, date
// and a time-of-day window. Both the timestamps listing and the generate
// action resolve their inputs through it.
type RangeQuery struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// Validate checks the query and resolves the parsed values. An empty
// start/end defaults to the whole day, matching the dashboard controls.
func (q *RangeQuery) Validate() (date time.Time, start, end catalog.Clock, err error) {
	if q.Location == "" {
		return date, start, end, fmt.Errorf("location is required")
	}
	date, err = time.Parse(catalog.DateLayout, q.Date)
	if err != nil {
		return date, start, end, fmt.Errorf("date %q: want %s", q.Date, catalog.DateLayout)
	}

	if q.Start == "" {
		q.Start = "00:00"
	}
	if q.End == "" {
		q.End = "23:59"
	}
	if start, err = catalog.ParseClock(q.Start); err != nil {
		return date, start, end, fmt.Errorf("start: %w", err)
	}
	if end, err = catalog.ParseClock(q.End); err != nil {
		return date, start, end, fmt.Errorf("end: %w", err)
	}
	return date, start, end, nil
}

// GenerateRequest is the body of POST /api/generate.
type GenerateRequest struct {
	RangeQuery
	Timestamp string `json:"timestamp"`
}

// Validate checks the request and resolves the parsed values.
func (r *GenerateRequest) Validate() (date time.Time, start, end catalog.Clock, err error) {
	if r.Timestamp == "" {
		return date, start, end, fmt.Errorf("timestamp is required")
	}
	return r.RangeQuery.Validate()
}

// LocationsResponse is the response for GET /api/locations.
type LocationsResponse struct {
	Locations []string `json:"locations"`
	Count     int      `json:"count"`
}

// ArtifactDTO describes one file available for a timestamp.
type ArtifactDTO struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Size string `json:"size,omitempty"`
}

// TimestampDTO is one selectable timestamp.
type TimestampDTO struct {
	Key   string        `json:"key"`
	Files []ArtifactDTO `json:"files"`
}

// TimestampsResponse is the response for GET /api/timestamps.
type TimestampsResponse struct {
	Timestamps []TimestampDTO `json:"timestamps"`
	Count      int            `json:"count"`
}

// GenerateResponse is the response for POST /api/generate. Figures are
// plotly-shaped chart specifications; PSD and broadband are null when
// their artifact was absent or unreadable, with one warning each.
type GenerateResponse struct {
	Timestamp   string       `json:"timestamp"`
	Spectrogram *plot.Figure `json:"spectrogram"`
	PSD         *plot.Figure `json:"psd,omitempty"`
	Broadband   *plot.Figure `json:"broadband,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
