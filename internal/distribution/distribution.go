package distribution

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDistribution is returned when the document is not an array of [size, count] pairs.
var ErrInvalidDistribution = errors.New("invalid size distribution")

// schema accepts what the chunk size distribution dump produces: [[size, count], ...].
var schema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type":    "array",
	"items": map[string]any{
		"type":     "array",
		"minItems": 2,
		"maxItems": 2,
		"items":    map[string]any{"type": "number"},
	},
}

// Entry is one bucket of the distribution.
type Entry struct {
	Size  float64
	Count float64
}

// Table is a chunk size distribution in file order. Sizes are not assumed unique.
type Table []Entry

// Load reads and validates a distribution file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read distribution: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse validates data against the pair-array schema and decodes it.
func Parse(data []byte) (Table, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistribution, err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDistribution, strings.Join(errs, ", "))
	}

	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistribution, err)
	}
	t := make(Table, len(pairs))
	for i, p := range pairs {
		t[i] = Entry{Size: p[0], Count: p[1]}
	}
	return t, nil
}

// Sorted returns a copy ordered by ascending size. Entries with equal size keep
// their file order and are not merged.
func (t Table) Sorted() Table {
	out := make(Table, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out
}

// Limit returns the entries whose size is at most maxSize. A non-positive maxSize keeps everything.
func (t Table) Limit(maxSize float64) Table {
	if maxSize <= 0 {
		return t
	}
	out := make(Table, 0, len(t))
	for _, e := range t {
		if e.Size <= maxSize {
			out = append(out, e)
		}
	}
	return out
}

// Split returns the sizes and counts as parallel slices.
func (t Table) Split() (sizes, counts []float64) {
	sizes = make([]float64, len(t))
	counts = make([]float64, len(t))
	for i, e := range t {
		sizes[i] = e.Size
		counts[i] = e.Count
	}
	return sizes, counts
}

// MaxSize returns the largest size, or 0 for an empty table.
func (t Table) MaxSize() float64 {
	if len(t) == 0 {
		return 0
	}
	m := t[0].Size
	for _, e := range t[1:] {
		if e.Size > m {
			m = e.Size
		}
	}
	return m
}
