// Package analyzer drives one dashboard interaction: discover artifacts
// for a location and date, narrow them to a time-of-day range, and turn a
// selected timestamp's files into chart specifications. Every call
// re-scans the filesystem; nothing is cached between interactions, so the
// dashboard always reflects what the pipeline has written.
package analyzer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/audio"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/catalog"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/plot"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/spectro"
	"github.com/orcasound-tools/shipnoise-analyzer/internal/table"
	"github.com/orcasound-tools/shipnoise-analyzer/pkg/logger"
)

// ErrNoWAV marks the fatal case: a timestamp was selected but no raw
// recording exists for it, so the primary spectrogram cannot be produced.
// Missing analysis tables are merely warnings; a missing WAV is not.
var ErrNoWAV = errors.New("no WAV file for timestamp")

// ErrUnknownTimestamp marks a selection that is not in the filtered index.
var ErrUnknownTimestamp = errors.New("timestamp not available")

type Service struct {
	cfg *Config
	log *logger.Logger
}

func NewService(opts ...Option) (*Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.DataRoot == "" {
		return nil, errors.New("data root must not be empty")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	return &Service{cfg: cfg, log: cfg.Logger}, nil
}

// Locations lists the hydrophone sites present under the data root.
func (s *Service) Locations() []string {
	return catalog.Locations(s.cfg.DataRoot)
}

// Artifact describes one file available for a timestamp.
type Artifact struct {
	Kind catalog.Kind
	Path string
	Size string
}

// TimestampEntry is one selectable timestamp with its artifacts.
type TimestampEntry struct {
	Key       string
	Artifacts []Artifact
}

// Timestamps indexes the location for the date, filters by time of day and
// returns the surviving timestamps in chronological order.
func (s *Service) Timestamps(location string, date time.Time, start, end catalog.Clock) []TimestampEntry {
	filtered := s.filteredIndex(location, date, start, end)

	entries := make([]TimestampEntry, 0, len(filtered))
	for _, key := range catalog.SortedKeys(filtered) {
		entry := TimestampEntry{Key: key}
		for _, kind := range []catalog.Kind{catalog.KindWAV, catalog.KindPSD, catalog.KindBroadband} {
			path, ok := filtered[key][kind]
			if !ok {
				continue
			}
			artifact := Artifact{Kind: kind, Path: path}
			if info, err := os.Stat(path); err == nil {
				artifact.Size = humanize.Bytes(uint64(info.Size()))
			}
			entry.Artifacts = append(entry.Artifacts, artifact)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Report is the outcome of one generate interaction. The raw-audio
// spectrogram is always present on success; the two analysis figures are
// nil when their artifact is absent or unreadable, with a warning each.
type Report struct {
	Timestamp   string
	Spectrogram *plot.Figure
	PSD         *plot.Figure
	Broadband   *plot.Figure
	Warnings    []string
}

// Generate runs the full pass for one selected timestamp: re-index,
// re-filter, load the WAV, compute its spectrogram, then attach whichever
// analysis figures can be produced. A missing or unreadable WAV aborts the
// interaction; a broken analysis table only degrades it.
func (s *Service) Generate(location string, date time.Time, start, end catalog.Clock, key string) (*Report, error) {
	filtered := s.filteredIndex(location, date, start, end)

	files, ok := filtered[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q for %s on %s between %s and %s",
			ErrUnknownTimestamp, key, location, date.Format(catalog.DateLayout), start, end)
	}

	wavPath, ok := files[catalog.KindWAV]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoWAV, key)
	}

	clip, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, fmt.Errorf("loading audio for %s: %w", key, err)
	}

	opts := spectro.Options{WindowSize: s.cfg.WindowSize, Overlap: s.cfg.Overlap}
	fig, err := plot.WaveformSpectrogram(clip, opts)
	if err != nil {
		return nil, fmt.Errorf("creating spectrogram for %s: %w", key, err)
	}

	report := &Report{Timestamp: key, Spectrogram: fig}
	s.log.Infof("generated spectrogram for %s/%s (%d channels, %s)",
		location, key, len(clip.Channels), clip.Duration())

	if psdPath, ok := files[catalog.KindPSD]; ok {
		if fig, err := s.psdFigure(psdPath); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("could not load PSD data: %v", err))
		} else {
			report.PSD = fig
		}
	} else {
		report.Warnings = append(report.Warnings, "no processed PSD data available for this timestamp")
	}

	if bbPath, ok := files[catalog.KindBroadband]; ok {
		if fig, err := s.broadbandFigure(bbPath); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("could not load broadband data: %v", err))
		} else {
			report.Broadband = fig
		}
	} else {
		report.Warnings = append(report.Warnings, "no broadband data available for this timestamp")
	}

	for _, w := range report.Warnings {
		s.log.Warnf("%s/%s: %s", location, key, w)
	}

	return report, nil
}

func (s *Service) filteredIndex(location string, date time.Time, start, end catalog.Clock) catalog.FileIndex {
	index := catalog.Index(s.cfg.DataRoot, location, date)
	filtered, dropped := catalog.FilterByTimeRange(index, start, end)
	if dropped > 0 {
		s.log.Warnf("%s/%s: %d files with unparseable timestamps ignored",
			location, date.Format(catalog.DateLayout), dropped)
	}
	return filtered
}

func (s *Service) psdFigure(path string) (*plot.Figure, error) {
	tbl, err := table.ReadPickle(path)
	if err != nil {
		return nil, err
	}
	return plot.PSDHeatmap(tbl)
}

func (s *Service) broadbandFigure(path string) (*plot.Figure, error) {
	tbl, err := table.ReadPickle(path)
	if err != nil {
		return nil, err
	}
	return plot.BroadbandLines(tbl)
}
