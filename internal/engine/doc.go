// Package engine is the FITS engine behind package fits.
//
// It exposes the primitives of a classic FITS library: a [Handle] with a
// current-HDU cursor, keyword access by type tag, image and table I/O as
// flat big-endian buffers, column management and checksums. Every failing
// call returns an [*Error] holding a [Status], whose numeric value follows
// the conventions of the reference C library, and a detailed message.
//
// # File Model
//
// A file is loaded into an in-memory list of header-data units when it is
// opened and written back by [Handle.Flush] or [Handle.Close] when it was
// modified. Read-only files are memory mapped. Files whose names end in a
// compression suffix (".gz", ".zst", ".lz4") are decompressed on open and
// compressed again on flush.
//
// # Type Tags
//
// Buffers exchanged with the engine are encoded according to a [Tag]:
// TSHORT buffers hold big-endian int16 values, TSTRING buffers hold
// fixed-width character fields, and so on. The engine converts between the
// tag and the storage type of the data unit, applying BZERO/BSCALE or
// TZEROn/TSCALn scaling on the way.
//
// # Indexing
//
// HDU numbers, column numbers, row numbers and pixel coordinates are
// 1-based, as in the FITS standard.
//
// A Handle is not safe for concurrent use.
package engine
