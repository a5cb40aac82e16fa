package fits

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// HDUType is the category of an HDU.
type HDUType int

// HDU categories.
const (
	ImageHDU HDUType = iota
	BintableHDU
	// ASCIITableHDU is recognized when reading but has no typed data
	// access.
	ASCIITableHDU
)

func (t HDUType) String() string {
	switch t {
	case ImageHDU:
		return "image"
	case BintableHDU:
		return "bintable"
	case ASCIITableHDU:
		return "ascii table"
	default:
		return fmt.Sprintf("HDUType(%d)", int(t))
	}
}

func hduType(t engine.HDUType) HDUType {
	switch t {
	case engine.BinaryTable:
		return BintableHDU
	case engine.ASCIITable:
		return ASCIITableHDU
	default:
		return ImageHDU
	}
}

// ChecksumState is the outcome of verifying a DATASUM or CHECKSUM
// keyword.
type ChecksumState = engine.ChecksumState

// Checksum states.
const (
	ChecksumInvalid = engine.ChecksumInvalid
	ChecksumMissing = engine.ChecksumMissing
	ChecksumValid   = engine.ChecksumValid
)

// HDU is a header-data unit of a File. It holds no state besides its
// index: every operation moves the engine to the HDU before running.
type HDU struct {
	file  *File
	index int
	typ   HDUType
}

// Index returns the 1-based index of the HDU in its file.
func (h *HDU) Index() int {
	return h.index
}

// Type returns the category of the HDU.
func (h *HDU) Type() HDUType {
	return h.typ
}

// IsPrimary reports whether the HDU is the primary HDU.
func (h *HDU) IsPrimary() bool {
	return h.index == 1
}

// File returns the file holding the HDU.
func (h *HDU) File() *File {
	return h.file
}

// Header gives access to the records of the HDU.
func (h *HDU) Header() *Header {
	return &Header{a: h.file.a, index: h.index}
}

// Image gives access to the image data. Operations fail with ErrNotImage
// if the HDU is not an image.
func (h *HDU) Image() *ImageRaster {
	return &ImageRaster{a: h.file.a, index: h.index}
}

// Columns gives access to the binary table data. Operations fail with
// ErrNotBintable if the HDU is not a binary table.
func (h *HDU) Columns() *BintableColumns {
	return &BintableColumns{a: h.file.a, index: h.index}
}

// Name returns the EXTNAME of the HDU, or "" if it has none.
func (h *HDU) Name() (string, error) {
	r, err := readRecord[string](h.file.a, h.index, "EXTNAME")
	var notFound *KeywordNotFoundError
	if errors.As(err, &notFound) {
		return "", nil
	}
	return r.Value, err
}

// Version returns the EXTVER of the HDU, 1 if it has none.
func (h *HDU) Version() (int, error) {
	r, err := readRecord[int64](h.file.a, h.index, "EXTVER")
	var notFound *KeywordNotFoundError
	if errors.As(err, &notFound) {
		return 1, nil
	}
	return int(r.Value), err
}

// UpdateName sets the EXTNAME of the HDU.
func (h *HDU) UpdateName(name string) error {
	return Write(h.Header(), "EXTNAME", name, "", "extension name")
}

// UpdateVersion sets the EXTVER of the HDU.
func (h *HDU) UpdateVersion(version int) error {
	return Write(h.Header(), "EXTVER", int64(version), "", "extension version")
}

func (h *HDU) initName(name string) error {
	if name == "" {
		return nil
	}
	return h.UpdateName(name)
}

// ReadDataSize returns the size in bytes of the data unit, padding
// included.
func (h *HDU) ReadDataSize() (int64, error) {
	eh, err := h.file.a.at(h.index)
	if err != nil {
		return 0, err
	}
	_, data, end, err := eh.HDUOffsets()
	if err != nil {
		return 0, h.file.a.fail(err, "reading size of HDU %d", h.index)
	}
	return end - data, nil
}

// UpdateChecksums writes the DATASUM and CHECKSUM keywords.
func (h *HDU) UpdateChecksums() error {
	eh, err := h.file.a.at(h.index)
	if err != nil {
		return err
	}
	if err := eh.WriteChecksum(); err != nil {
		return h.file.a.fail(err, "updating checksums of HDU %d", h.index)
	}
	return nil
}

// VerifyChecksums checks the DATASUM and CHECKSUM keywords against the
// contents of the HDU. It returns a *ChecksumError if either is missing or
// wrong.
func (h *HDU) VerifyChecksums() error {
	eh, err := h.file.a.at(h.index)
	if err != nil {
		return err
	}
	data, hdu, err := eh.VerifyChecksum()
	if err != nil {
		return h.file.a.fail(err, "verifying checksums of HDU %d", h.index)
	}
	if data != ChecksumValid || hdu != ChecksumValid {
		return &ChecksumError{HDUIndex: h.index, Data: data, HDU: hdu}
	}
	return nil
}
