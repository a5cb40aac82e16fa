package engine

import (
	"strconv"
	"time"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/card"
)

// ChecksumState is the outcome of verifying one checksum keyword.
type ChecksumState int

// Checksum states.
const (
	ChecksumInvalid ChecksumState = -1
	ChecksumMissing ChecksumState = 0
	ChecksumValid   ChecksumState = 1
)

func (s ChecksumState) String() string {
	switch s {
	case ChecksumInvalid:
		return "invalid"
	case ChecksumMissing:
		return "missing"
	default:
		return "valid"
	}
}

// now is replaced in tests.
var now = time.Now

func (u *unit) dataSum() (uint32, error) {
	data, err := u.bytes()
	if err != nil {
		return 0, err
	}
	// Zero padding does not change the sum, so only a partial last
	// word needs care.
	if rem := len(data) % 4; rem != 0 {
		tail := make([]byte, 4)
		copy(tail, data[len(data)-rem:])
		return binary.Sum32(tail, binary.Sum32(data[:len(data)-rem], 0)), nil
	}
	return binary.Sum32(data, 0), nil
}

// WriteChecksum computes and writes the DATASUM and CHECKSUM keywords of
// the current HDU.
func (h *Handle) WriteChecksum() error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	datasum, err := u.dataSum()
	if err != nil {
		return err
	}

	stamp := now().UTC().Format("2006-01-02T15:04:05")
	u.set(card.String("CHECKSUM", binary.ZeroChecksum, "HDU checksum updated "+stamp))
	u.set(card.String("DATASUM", strconv.FormatUint(uint64(datasum), 10), "data unit checksum updated "+stamp))

	header, err := u.headerBytes()
	if err != nil {
		return err
	}
	sum := binary.AddSums(binary.Sum32(header, 0), datasum)
	u.set(card.String("CHECKSUM", binary.EncodeChecksum(sum, true), "HDU checksum updated "+stamp))
	return nil
}

// VerifyChecksum checks the DATASUM and CHECKSUM keywords of the current
// HDU against its contents.
func (h *Handle) VerifyChecksum() (data, hdu ChecksumState, err error) {
	u, err := h.cur()
	if err != nil {
		return 0, 0, err
	}
	datasum, err := u.dataSum()
	if err != nil {
		return 0, 0, err
	}

	data = ChecksumMissing
	if c, ok := u.get("DATASUM"); ok {
		data = ChecksumInvalid
		if text, err := c.Text(); err == nil {
			if stored, err := strconv.ParseUint(text, 10, 32); err == nil && uint32(stored) == datasum {
				data = ChecksumValid
			}
		}
	}

	hdu = ChecksumMissing
	if _, ok := u.get("CHECKSUM"); ok {
		header, err := u.headerBytes()
		if err != nil {
			return 0, 0, err
		}
		hdu = ChecksumInvalid
		if binary.AddSums(binary.Sum32(header, 0), datasum) == 0xFFFFFFFF {
			hdu = ChecksumValid
		}
	}
	return data, hdu, nil
}
