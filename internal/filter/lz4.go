package filter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// LZ4 implements the LZ4 frame codec.
type LZ4 struct {
	level lz4.CompressionLevel
}

// NewLZ4 creates an LZ4 codec. Levels range from 0 (fast) to 9.
func NewLZ4(level int) *LZ4 {
	if level < 0 || level >= len(lz4Levels) {
		return &LZ4{level: lz4.Fast}
	}
	return &LZ4{level: lz4Levels[level]}
}

func (f *LZ4) Name() string {
	return "lz4"
}

func (f *LZ4) Encode(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(f.level)); err != nil {
		return nil, fmt.Errorf("lz4 writer: %w", err)
	}
	if _, err := w.Write(input); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *LZ4) Decode(input []byte) ([]byte, error) {
	output, err := io.ReadAll(lz4.NewReader(bytes.NewReader(input)))
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return output, nil
}
