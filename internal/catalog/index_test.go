package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeArtifact creates an empty file at root/location/session/subdir/name,
// creating intermediate directories as needed.
func writeArtifact(t *testing.T, root, location, session, subdir, name string) string {
	t.Helper()
	dir := filepath.Join(root, location, session, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) failed: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
	return path
}

func TestIndexMissingRoot(t *testing.T) {
	index := Index(filepath.Join(t.TempDir(), "nope"), "orcasound_lab", time.Now())
	if len(index) != 0 {
		t.Errorf("expected empty index for missing root, got %d entries", len(index))
	}
}

func TestIndexNoMatchingDate(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "orcasound_lab", "session1", "wav", "2025-09-01T12-00-00-000000.wav")

	index := Index(root, "orcasound_lab", time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC))
	if len(index) != 0 {
		t.Errorf("expected empty index for non-matching date, got %d entries", len(index))
	}
}

func TestIndexGroupsKindsByTimestamp(t *testing.T) {
	root := t.TempDir()
	key := "2025-09-01T12-00-00-000000"
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	wavPath := writeArtifact(t, root, "orcasound_lab", "session1", "wav", key+".wav")
	psdPath := writeArtifact(t, root, "orcasound_lab", "session1", filepath.Join("pkl", "psd"), key+".pickle")
	bbPath := writeArtifact(t, root, "orcasound_lab", "session1", filepath.Join("pkl", "bb"), key+".pickle")

	index := Index(root, "orcasound_lab", date)
	if len(index) != 1 {
		t.Fatalf("expected 1 timestamp, got %d", len(index))
	}

	files := index[key]
	if len(files) != 3 {
		t.Fatalf("expected 3 kinds for %s, got %d", key, len(files))
	}
	if files[KindWAV] != wavPath {
		t.Errorf("KindWAV = %q, want %q", files[KindWAV], wavPath)
	}
	if files[KindPSD] != psdPath {
		t.Errorf("KindPSD = %q, want %q", files[KindPSD], psdPath)
	}
	if files[KindBroadband] != bbPath {
		t.Errorf("KindBroadband = %q, want %q", files[KindBroadband], bbPath)
	}
}

func TestIndexIgnoresOtherExtensionsAndFiles(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	writeArtifact(t, root, "orcasound_lab", "session1", "wav", "2025-09-01T12-00-00-000000.flac")
	writeArtifact(t, root, "orcasound_lab", "session1", "wav", "readme.txt")
	writeArtifact(t, root, "orcasound_lab", "session1", filepath.Join("pkl", "psd"), "2025-09-01T12-00-00-000000.csv")

	// A stray regular file at the session level must not break the scan.
	if err := os.WriteFile(filepath.Join(root, "orcasound_lab", "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	index := Index(root, "orcasound_lab", date)
	if len(index) != 0 {
		t.Errorf("expected empty index, got %v", index)
	}
}

func TestIndexDuplicateKeyLastSessionWins(t *testing.T) {
	root := t.TempDir()
	key := "2025-09-01T12-00-00-000000"
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	writeArtifact(t, root, "orcasound_lab", "session_a", "wav", key+".wav")
	winner := writeArtifact(t, root, "orcasound_lab", "session_b", "wav", key+".wav")

	index := Index(root, "orcasound_lab", date)
	if got := index[key][KindWAV]; got != winner {
		t.Errorf("duplicate key resolved to %q, want last sorted session %q", got, winner)
	}
}

func TestIndexSeparateTimestamps(t *testing.T) {
	root := t.TempDir()
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	writeArtifact(t, root, "bush_point", "session1", "wav", "2025-09-01T08-00-00-000000.wav")
	writeArtifact(t, root, "bush_point", "session1", "wav", "2025-09-01T09-00-00-000000.wav")
	writeArtifact(t, root, "bush_point", "session2", filepath.Join("pkl", "bb"), "2025-09-01T10-00-00-000000.pickle")

	index := Index(root, "bush_point", date)
	if len(index) != 3 {
		t.Fatalf("expected 3 timestamps, got %d", len(index))
	}

	keys := SortedKeys(index)
	want := []string{
		"2025-09-01T08-00-00-000000",
		"2025-09-01T09-00-00-000000",
		"2025-09-01T10-00-00-000000",
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
}

func TestLocations(t *testing.T) {
	root := t.TempDir()
	for _, loc := range []string{"sunset_bay", "bush_point", "orcasound_lab"} {
		if err := os.MkdirAll(filepath.Join(root, loc), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "manifest.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got := Locations(root)
	want := []string{"bush_point", "orcasound_lab", "sunset_bay"}
	if len(got) != len(want) {
		t.Fatalf("Locations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locations[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if Locations(filepath.Join(root, "missing")) != nil {
		t.Error("expected nil for missing root")
	}
}
