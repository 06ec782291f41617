package table

import (
	"fmt"
	"strconv"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// Table is a time-indexed table: one row per time step, one column per
// signal (a single level column for broadband files, one column per
// frequency bin for PSD files).
type Table struct {
	Index   []string
	Columns []string
	Values  [][]float64
}

// NumRows returns the number of time steps.
func (t *Table) NumRows() int { return len(t.Index) }

// NumColumns returns the number of value columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// Column returns one column as a slice over time.
func (t *Table) Column(j int) []float64 {
	col := make([]float64, len(t.Values))
	for i, row := range t.Values {
		col[i] = row[j]
	}
	return col
}

// ReadPickle loads an analysis table written by the upstream pipeline.
// The accepted payload is a pickled mapping with three entries: "index"
// (row labels), "columns" (column labels) and "values" (rows of numbers).
// Anything else, including pickled DataFrame internals, is rejected with a
// descriptive error.
func ReadPickle(path string) (*Table, error) {
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unpickling %s: %w", path, err)
	}

	dict, ok := obj.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("table %s: top-level object is %T, want a mapping", path, obj)
	}

	index, err := labelList(dict, "index")
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}
	columns, err := labelList(dict, "columns")
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}

	rawValues, ok := dict.Get("values")
	if !ok {
		return nil, fmt.Errorf("table %s: missing \"values\"", path)
	}
	rows, ok := rawValues.(*types.List)
	if !ok {
		return nil, fmt.Errorf("table %s: \"values\" is %T, want a list of rows", path, rawValues)
	}
	if rows.Len() != len(index) {
		return nil, fmt.Errorf("table %s: %d value rows for %d index entries", path, rows.Len(), len(index))
	}

	values := make([][]float64, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		row, ok := rows.Get(i).(*types.List)
		if !ok {
			return nil, fmt.Errorf("table %s: row %d is %T, want a list", path, i, rows.Get(i))
		}
		if row.Len() != len(columns) {
			return nil, fmt.Errorf("table %s: row %d has %d cells for %d columns", path, i, row.Len(), len(columns))
		}
		cells := make([]float64, row.Len())
		for j := 0; j < row.Len(); j++ {
			v, ok := asFloat(row.Get(j))
			if !ok {
				return nil, fmt.Errorf("table %s: row %d cell %d is %T, want a number", path, i, j, row.Get(j))
			}
			cells[j] = v
		}
		values[i] = cells
	}

	return &Table{Index: index, Columns: columns, Values: values}, nil
}

// labelList reads a list of labels, stringifying numeric labels (PSD
// columns are frequency-bin numbers).
func labelList(dict *types.Dict, key string) ([]string, error) {
	raw, ok := dict.Get(key)
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	list, ok := raw.(*types.List)
	if !ok {
		return nil, fmt.Errorf("%q is %T, want a list", key, raw)
	}

	labels := make([]string, list.Len())
	for i := 0; i < list.Len(); i++ {
		switch v := list.Get(i).(type) {
		case string:
			labels[i] = v
		case int:
			labels[i] = strconv.Itoa(v)
		case float64:
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			return nil, fmt.Errorf("%q entry %d is %T, want string or number", key, i, v)
		}
	}
	return labels, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
