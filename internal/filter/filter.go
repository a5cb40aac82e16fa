package filter

import (
	"path/filepath"
	"strings"
)

// DefaultLevel selects each codec's default compression level.
const DefaultLevel = -1

// Filter is the interface implemented by all compression codecs.
type Filter interface {
	// Name returns the codec name.
	Name() string

	// Encode compresses data.
	Encode(input []byte) ([]byte, error)

	// Decode decompresses data.
	Decode(input []byte) ([]byte, error)
}

// Registry maps file suffixes to filter constructors. The argument is the
// compression level, or DefaultLevel.
var Registry = map[string]func(level int) Filter{
	".gz":  func(level int) Filter { return NewGzip(level) },
	".zst": func(level int) Filter { return NewZstd(level) },
	".lz4": func(level int) Filter { return NewLZ4(level) },
}

// Lookup returns the filter registered for suffix, or nil.
func Lookup(suffix string, level int) Filter {
	constructor, ok := Registry[strings.ToLower(suffix)]
	if !ok {
		return nil
	}
	return constructor(level)
}

// StripSuffixes returns path without its compression suffixes.
func StripSuffixes(path string) string {
	for {
		ext := filepath.Ext(path)
		if ext == "" || Lookup(ext, DefaultLevel) == nil {
			return path
		}
		path = strings.TrimSuffix(path, ext)
	}
}
