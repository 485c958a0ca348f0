package measurements

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Column keys of the benchmark CSV.
const (
	NameColumn    = "name"
	ChunkerColumn = "chunker"
	FirstMetric   = "dedup_ratio"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing column")

// Table is an in-memory CSV table of benchmark measurements.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Load reads a CSV/TSV file. A missing file yields an error that matches os.ErrNotExist.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	t, err := Read(f, sniffDelimiter(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Read parses a delimited table whose first record is the header.
func Read(r io.Reader, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read header: empty table")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	ncol := len(header)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]string, ncol)
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Column returns the index of the first column named key.
func (t *Table) Column(key string) (int, error) {
	i, ok := t.index[key]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, key)
	}
	return i, nil
}

// Validate checks that the dataset and chunker columns every chart needs are present.
func (t *Table) Validate() error {
	for _, key := range []string{NameColumn, ChunkerColumn} {
		if _, err := t.Column(key); err != nil {
			return err
		}
	}
	return nil
}

// Exclude removes every row whose chunker equals one of labels exactly and
// returns the number of rows removed.
func (t *Table) Exclude(labels ...string) (int, error) {
	ci, err := t.Column(ChunkerColumn)
	if err != nil {
		return 0, err
	}
	if len(labels) == 0 {
		return 0, nil
	}
	drop := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		drop[l] = struct{}{}
	}
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if _, ok := drop[row[ci]]; ok {
			continue
		}
		kept = append(kept, row)
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed, nil
}

// NormalizeChunker reduces "<algorithm>, <parameters...>" to "<algorithm>".
func NormalizeChunker(label string) string {
	head, _, _ := strings.Cut(label, ",")
	return strings.TrimSpace(head)
}

// NormalizeChunkers applies NormalizeChunker to every row, collapsing
// parameterized variants of one algorithm into one category.
func (t *Table) NormalizeChunkers() error {
	ci, err := t.Column(ChunkerColumn)
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		row[ci] = NormalizeChunker(row[ci])
	}
	return nil
}

// MetricColumns returns every column from the first occurrence of first to the
// last column, in header order.
func (t *Table) MetricColumns(first string) ([]string, error) {
	i, err := t.Column(first)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Header)-i)
	copy(out, t.Header[i:])
	return out, nil
}

// IsNumeric reports whether every non-empty cell of the column parses as a number.
// Columns with no values at all are not numeric.
func (t *Table) IsNumeric(key string) bool {
	i, err := t.Column(key)
	if err != nil {
		return false
	}
	seen := false
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[i])
		if v == "" {
			continue
		}
		if _, ok := parseNumeric(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// Pivot is a metric reshaped so that datasets index the rows and chunkers the columns.
type Pivot struct {
	Metric  string
	Rows    []string
	Columns []string
	// Values[i][j] is the metric for Rows[i] and Columns[j]; NaN marks a missing cell.
	Values [][]float64
}

// Value returns the cell for (row, col) and whether it holds a value.
func (p *Pivot) Value(row, col string) (float64, bool) {
	i := indexOf(p.Rows, row)
	j := indexOf(p.Columns, col)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	v := p.Values[i][j]
	return v, !math.IsNaN(v)
}

// Column returns the values of one column in row order.
func (p *Pivot) Column(col string) []float64 {
	j := indexOf(p.Columns, col)
	if j < 0 {
		return nil
	}
	out := make([]float64, len(p.Rows))
	for i := range p.Rows {
		out[i] = p.Values[i][j]
	}
	return out
}

// Pivot builds a view of values indexed by the unique values of index (rows)
// and columns (columns), both sorted. Rows that map to the same cell are
// averaged; empty cells are skipped. Row and column labels with no value at
// all do not appear.
func (t *Table) Pivot(index, columns, values string) (*Pivot, error) {
	ri, err := t.Column(index)
	if err != nil {
		return nil, err
	}
	ci, err := t.Column(columns)
	if err != nil {
		return nil, err
	}
	vi, err := t.Column(values)
	if err != nil {
		return nil, err
	}

	type cellKey struct{ row, col string }
	type meanAcc struct {
		sum float64
		n   int
	}
	cells := map[cellKey]*meanAcc{}
	rowSet := map[string]struct{}{}
	colSet := map[string]struct{}{}
	for n, rec := range t.Rows {
		raw := strings.TrimSpace(rec[vi])
		if raw == "" {
			continue
		}
		x, ok := parseNumeric(raw)
		if !ok {
			return nil, fmt.Errorf("%s row %d: %q is not numeric", values, n+1, raw)
		}
		if math.IsNaN(x) {
			continue
		}
		k := cellKey{row: rec[ri], col: rec[ci]}
		acc := cells[k]
		if acc == nil {
			acc = &meanAcc{}
			cells[k] = acc
		}
		acc.sum += x
		acc.n++
		rowSet[k.row] = struct{}{}
		colSet[k.col] = struct{}{}
	}

	p := &Pivot{Metric: values, Rows: sortedKeys(rowSet), Columns: sortedKeys(colSet)}
	p.Values = make([][]float64, len(p.Rows))
	for i, r := range p.Rows {
		p.Values[i] = make([]float64, len(p.Columns))
		for j, c := range p.Columns {
			if acc := cells[cellKey{row: r, col: c}]; acc != nil {
				p.Values[i][j] = acc.sum / float64(acc.n)
			} else {
				p.Values[i][j] = math.NaN()
			}
		}
	}
	return p, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
