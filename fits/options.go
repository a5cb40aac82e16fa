package fits

import (
	"io"
	"log/slog"

	"github.com/robert-malhotra/go-fits/internal/filter"
)

// FileOption configures how a file is opened.
type FileOption func(*fileOptions)

type fileOptions struct {
	logger          *slog.Logger
	level           int
	checksumOnClose bool
	tempDir         string
}

func defaultFileOptions() *fileOptions {
	return &fileOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		level:  filter.DefaultLevel,
	}
}

// WithLogger sets the logger receiving debug events: opening, closing,
// extension creation and failed engine calls. By default nothing is
// logged.
func WithLogger(logger *slog.Logger) FileOption {
	return func(o *fileOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCompression sets the compression level used when the file name ends
// with ".gz", ".zst" or ".lz4". The meaning of the level depends on the
// codec; negative values select its default.
func WithCompression(level int) FileOption {
	return func(o *fileOptions) {
		o.level = level
	}
}

// WithChecksumOnClose updates the checksums of every HDU when a writable
// file is closed.
func WithChecksumOnClose() FileOption {
	return func(o *fileOptions) {
		o.checksumOnClose = true
	}
}

// WithTempDir sets the directory of files made by CreateTemp. The default
// is os.TempDir().
func WithTempDir(dir string) FileOption {
	return func(o *fileOptions) {
		o.tempDir = dir
	}
}
