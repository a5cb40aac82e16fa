package filter

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Pipeline represents the compression filters of one file.
type Pipeline struct {
	filters []Filter
}

// ForPath creates the pipeline matching the compression suffixes of path.
func ForPath(path string) *Pipeline {
	return ForPathLevel(path, DefaultLevel)
}

// ForPathLevel is ForPath with an explicit compression level.
func ForPathLevel(path string, level int) *Pipeline {
	p := &Pipeline{}
	for {
		ext := filepath.Ext(path)
		f := Lookup(ext, level)
		if ext == "" || f == nil {
			break
		}
		p.filters = append(p.filters, f)
		path = strings.TrimSuffix(path, ext)
	}
	// Collected outermost first; encoding starts with the innermost.
	slices.Reverse(p.filters)
	return p
}

// Encode applies the filters in order.
func (p *Pipeline) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range p.filters {
		var err error
		data, err = f.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("%s encode: %w", f.Name(), err)
		}
	}
	return data, nil
}

// Decode applies the filters in reverse order (last filter first).
func (p *Pipeline) Decode(input []byte) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s decode: %w", p.filters[i].Name(), err)
		}
	}
	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Names returns the filter names in encoding order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.filters))
	for i, f := range p.filters {
		names[i] = f.Name()
	}
	return names
}
