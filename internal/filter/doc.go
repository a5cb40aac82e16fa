// Package filter implements whole-file compression for FITS files.
//
// A FITS file may be stored compressed as a whole, in which case the codec
// is selected from the file name suffix. Files are decoded in full when
// opened and encoded again when flushed.
//
// # Supported Codecs
//
//   - gzip (".gz"): via [Gzip], using github.com/klauspost/compress/gzip.
//   - Zstandard (".zst"): via [Zstd], using github.com/klauspost/compress/zstd.
//   - LZ4 frames (".lz4"): via [LZ4], using github.com/pierrec/lz4/v4.
//
// # Filter Pipeline
//
// Suffixes stack, so "image.fits.zst.gz" is a Zstandard stream wrapped in
// gzip. The [Pipeline] for a path holds one filter per suffix:
//
//	p := filter.ForPath("image.fits.gz")
//	raw, err := p.Decode(stored)
//	stored, err = p.Encode(raw)
//
// Filters are applied in suffix order when encoding and in reverse order
// when decoding.
//
// # Key Types
//
//   - [Filter]: interface implemented by all codecs
//   - [Pipeline]: ordered sequence of filters for one file
package filter
