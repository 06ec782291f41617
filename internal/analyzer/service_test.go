package analyzer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/orcasound-tools/shipnoise-analyzer/internal/catalog"
	"github.com/orcasound-tools/shipnoise-analyzer/pkg/logger"
)

const testKey = "2025-09-01T12-00-00-000000"

var testDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.FATAL, Output: io.Discard, Colorize: false})
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) failed: %v", path, err)
	}
}

func writeWAVFile(t *testing.T, path string) {
	t.Helper()
	mkdir(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	sampleRate := 4000
	data := make([]int, sampleRate)
	for i := range data {
		data[i] = int(16000 * math.Sin(2*math.Pi*500*float64(i)/float64(sampleRate)))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encoding wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
}

// pickleTable emits a protocol-2 pickle of the table payload the decoder
// accepts: {"index": rows, "columns": cols, "values": values}.
func pickleTable(index, columns []string, values [][]float64) []byte {
	var b bytes.Buffer
	str := func(s string) {
		b.WriteByte('X')
		binary.Write(&b, binary.LittleEndian, uint32(len(s)))
		b.WriteString(s)
	}
	strList := func(items []string) {
		b.WriteString("](")
		for _, s := range items {
			str(s)
		}
		b.WriteByte('e')
	}

	b.Write([]byte{0x80, 0x02})
	b.WriteString("}(")

	str("index")
	strList(index)
	str("columns")
	strList(columns)

	str("values")
	b.WriteString("](")
	for _, row := range values {
		b.WriteString("](")
		for _, v := range row {
			b.WriteByte('G')
			binary.Write(&b, binary.BigEndian, math.Float64bits(v))
		}
		b.WriteByte('e')
	}
	b.WriteByte('e')

	b.WriteString("u.")
	return b.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
}

func newTestService(t *testing.T, root string) *Service {
	t.Helper()
	s, err := NewService(WithDataRoot(root), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return s
}

func fullDay(t *testing.T) (catalog.Clock, catalog.Clock) {
	t.Helper()
	start, err := catalog.ParseClock("00:00")
	if err != nil {
		t.Fatal(err)
	}
	end, err := catalog.ParseClock("23:59")
	if err != nil {
		t.Fatal(err)
	}
	return start, end
}

func TestNewServiceRequiresDataRoot(t *testing.T) {
	if _, err := NewService(WithDataRoot("")); err == nil {
		t.Error("expected error for empty data root")
	}
}

func TestTimestampsListsArtifacts(t *testing.T) {
	root := t.TempDir()
	writeWAVFile(t, filepath.Join(root, "orcasound_lab", "s1", "wav", testKey+".wav"))
	writeFile(t, filepath.Join(root, "orcasound_lab", "s1", "pkl", "bb", testKey+".pickle"),
		pickleTable([]string{"t0"}, []string{"rms"}, [][]float64{{90}}))

	s := newTestService(t, root)
	start, end := fullDay(t)

	entries := s.Timestamps("orcasound_lab", testDate, start, end)
	if len(entries) != 1 {
		t.Fatalf("expected 1 timestamp, got %d", len(entries))
	}
	if entries[0].Key != testKey {
		t.Errorf("Key = %q, want %q", entries[0].Key, testKey)
	}
	if len(entries[0].Artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(entries[0].Artifacts))
	}
	for _, a := range entries[0].Artifacts {
		if a.Size == "" {
			t.Errorf("artifact %s has no size", a.Kind)
		}
	}
}

func TestTimestampsEmptyForMissingLocation(t *testing.T) {
	s := newTestService(t, t.TempDir())
	start, end := fullDay(t)

	if entries := s.Timestamps("nowhere", testDate, start, end); len(entries) != 0 {
		t.Errorf("expected no timestamps, got %d", len(entries))
	}
}

func TestGenerateFullReport(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "orcasound_lab", "s1")
	writeWAVFile(t, filepath.Join(base, "wav", testKey+".wav"))
	writeFile(t, filepath.Join(base, "pkl", "psd", testKey+".pickle"),
		pickleTable([]string{"t0", "t1"}, []string{"10", "20"}, [][]float64{{1, 2}, {3, 4}}))
	writeFile(t, filepath.Join(base, "pkl", "bb", testKey+".pickle"),
		pickleTable([]string{"t0", "t1"}, []string{"rms"}, [][]float64{{90}, {91}}))

	s := newTestService(t, root)
	start, end := fullDay(t)

	report, err := s.Generate("orcasound_lab", testDate, start, end, testKey)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Spectrogram == nil {
		t.Error("missing spectrogram figure")
	}
	if report.PSD == nil {
		t.Error("missing PSD figure")
	}
	if report.Broadband == nil {
		t.Error("missing broadband figure")
	}
	if len(report.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", report.Warnings)
	}
}

func TestGenerateNoWAVIsFatal(t *testing.T) {
	root := t.TempDir()
	// PSD exists for the timestamp, WAV does not.
	writeFile(t, filepath.Join(root, "orcasound_lab", "s1", "pkl", "psd", testKey+".pickle"),
		pickleTable([]string{"t0"}, []string{"10"}, [][]float64{{1}}))

	s := newTestService(t, root)
	start, end := fullDay(t)

	_, err := s.Generate("orcasound_lab", testDate, start, end, testKey)
	if !errors.Is(err, ErrNoWAV) {
		t.Errorf("expected ErrNoWAV, got %v", err)
	}
}

func TestGenerateUnknownTimestamp(t *testing.T) {
	root := t.TempDir()
	writeWAVFile(t, filepath.Join(root, "orcasound_lab", "s1", "wav", testKey+".wav"))

	s := newTestService(t, root)
	start, end := fullDay(t)

	_, err := s.Generate("orcasound_lab", testDate, start, end, "2025-09-01T23-00-00-000000")
	if !errors.Is(err, ErrUnknownTimestamp) {
		t.Errorf("expected ErrUnknownTimestamp, got %v", err)
	}
	if errors.Is(err, ErrNoWAV) {
		t.Error("unknown timestamp must not report as missing WAV")
	}
}

func TestGenerateOutsideTimeRange(t *testing.T) {
	root := t.TempDir()
	writeWAVFile(t, filepath.Join(root, "orcasound_lab", "s1", "wav", testKey+".wav"))

	s := newTestService(t, root)
	start, _ := catalog.ParseClock("14:00")
	end, _ := catalog.ParseClock("16:00")

	// Noon recording filtered out by the 14:00-16:00 range.
	if _, err := s.Generate("orcasound_lab", testDate, start, end, testKey); !errors.Is(err, ErrUnknownTimestamp) {
		t.Errorf("expected ErrUnknownTimestamp, got %v", err)
	}
}

func TestGenerateDegradesPerArtifact(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "orcasound_lab", "s1")
	writeWAVFile(t, filepath.Join(base, "wav", testKey+".wav"))
	// Corrupt PSD, no broadband at all.
	writeFile(t, filepath.Join(base, "pkl", "psd", testKey+".pickle"), []byte("not a pickle"))

	s := newTestService(t, root)
	start, end := fullDay(t)

	report, err := s.Generate("orcasound_lab", testDate, start, end, testKey)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.Spectrogram == nil {
		t.Error("spectrogram must survive analysis-table failures")
	}
	if report.PSD != nil {
		t.Error("corrupt PSD should not produce a figure")
	}
	if report.Broadband != nil {
		t.Error("absent broadband should not produce a figure")
	}
	if len(report.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", report.Warnings)
	}
}

func TestGenerateBrokenWAVIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "orcasound_lab", "s1", "wav", testKey+".wav"), []byte("not audio"))

	s := newTestService(t, root)
	start, end := fullDay(t)

	if _, err := s.Generate("orcasound_lab", testDate, start, end, testKey); err == nil {
		t.Error("expected error for unreadable WAV")
	}
}

func TestLocations(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "bush_point"))
	mkdir(t, filepath.Join(root, "orcasound_lab"))

	s := newTestService(t, root)
	locations := s.Locations()
	if len(locations) != 2 || locations[0] != "bush_point" {
		t.Errorf("Locations = %v", locations)
	}
}
