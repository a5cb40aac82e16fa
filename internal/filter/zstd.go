package filter

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdDecoderPool sync.Pool

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Zstd implements the Zstandard codec.
type Zstd struct {
	level zstd.EncoderLevel
}

// NewZstd creates a Zstandard codec. level follows the zstd command line
// scale (1 to 22).
func NewZstd(level int) *Zstd {
	if level == DefaultLevel {
		return &Zstd{level: zstd.SpeedDefault}
	}
	return &Zstd{level: zstd.EncoderLevelFromZstd(level)}
}

func (f *Zstd) Name() string {
	return "zstd"
}

func (f *Zstd) Encode(input []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(f.level))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(input, nil), nil
}

func (f *Zstd) Decode(input []byte) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zstdDecoderPool.Put(dec)

	output, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return output, nil
}
