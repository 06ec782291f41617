package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tags the role a file plays for one timestamp.
type Kind string

const (
	// KindWAV is the raw hydrophone recording.
	KindWAV Kind = "wav"
	// KindPSD is the precomputed power-spectral-density table.
	KindPSD Kind = "psd"
	// KindBroadband is the precomputed broadband-level series.
	KindBroadband Kind = "bb"
)

// FileIndex maps a timestamp key to the artifacts found for that instant.
// A timestamp may carry any subset of the three kinds.
type FileIndex map[string]map[Kind]string

// sources describes where each artifact kind lives inside a session
// directory and which extension it carries. The layout is the output
// contract of the upstream analysis pipeline.
var sources = []struct {
	subdir string
	ext    string
	kind   Kind
}{
	{"wav", ".wav", KindWAV},
	{filepath.Join("pkl", "bb"), ".pickle", KindBroadband},
	{filepath.Join("pkl", "psd"), ".pickle", KindPSD},
}

// Index scans the location's directory tree for all artifacts recorded on
// the given calendar date and groups them by timestamp key. Sessions are
// scanned in sorted name order, so a timestamp+kind that appears in more
// than one session resolves last-write-wins by session name. A missing
// location root or an empty tree yields an empty index, never an error.
func Index(root, location string, date time.Time) FileIndex {
	index := FileIndex{}

	locDir := filepath.Join(root, location)
	entries, err := os.ReadDir(locDir)
	if err != nil {
		return index
	}

	datePrefix := date.Format(DateLayout) + "T"

	// Sessions must be visited in sorted name order: duplicate keys
	// resolve last-write-wins, and that order is part of the contract.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, session := range entries {
		if !session.IsDir() {
			continue
		}
		for _, src := range sources {
			pattern := filepath.Join(locDir, session.Name(), src.subdir, datePrefix+"*"+src.ext)
			matches, err := filepath.Glob(pattern)
			if err != nil {
				continue
			}
			sort.Strings(matches)
			for _, path := range matches {
				key := strings.TrimSuffix(filepath.Base(path), src.ext)
				if index[key] == nil {
					index[key] = map[Kind]string{}
				}
				index[key][src.kind] = path
			}
		}
	}

	return index
}

// Locations lists the location directories under the data root, sorted.
func Locations(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var locations []string
	for _, e := range entries {
		if e.IsDir() {
			locations = append(locations, e.Name())
		}
	}
	sort.Strings(locations)
	return locations
}

// SortedKeys returns the index keys in lexicographic order, which for
// timestamp keys is chronological order.
func SortedKeys(index FileIndex) []string {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
