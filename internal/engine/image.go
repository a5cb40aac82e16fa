package engine

import (
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// ImageInfo describes the data unit of an image HDU.
type ImageInfo struct {
	// Bitpix is the BITPIX keyword value.
	Bitpix int
	// EquivBitpix describes the physical values once BZERO and BSCALE are
	// applied, using the pseudo values SByteImg, UShortImg, ULongImg and
	// ULongLongImg for offset integer storage.
	EquivBitpix int
	Naxes       []int64
}

// imageLayout is the storage of the current image.
type imageLayout struct {
	stored dtype.Type
	zero   float64
	scale  float64
	naxes  []int64
	npix   int64
}

func (u *unit) image() (*imageLayout, error) {
	if u.hduType() != ImageHDU {
		return nil, fail(NotImage, "HDU is a %s", u.hduType())
	}
	bitpix, err := u.bitpix()
	if err != nil {
		return nil, err
	}
	naxes, err := u.naxes()
	if err != nil {
		return nil, err
	}
	stored, _ := bitpixType(bitpix)
	l := &imageLayout{
		stored: stored,
		zero:   u.floatValue("BZERO", 0),
		scale:  u.floatValue("BSCALE", 1),
		naxes:  naxes,
	}
	if l.scale == 0 {
		return nil, fail(ZeroScale, "BSCALE = 0")
	}
	if len(naxes) > 0 {
		l.npix = 1
		for _, n := range naxes {
			l.npix *= n
		}
	}
	return l, nil
}

// CreateImage appends an image extension and makes it current. bitpix may
// be one of the pseudo values, which set BZERO accordingly.
func (h *Handle) CreateImage(bitpix int, naxes []int64) error {
	if err := h.checkWrite(); err != nil {
		return err
	}
	stored, zero, ok := storageBitpix(bitpix)
	if !ok {
		return fail(BadBitpix, "BITPIX = %d", bitpix)
	}
	if err := checkAxes(naxes); err != nil {
		return err
	}

	u := newImageUnit(false, stored, naxes)
	if zero != 0 {
		u.append(keyFloat("BZERO", zero, "offset data range to that of unsigned"))
		u.append(keyFloat("BSCALE", 1, "default scaling factor"))
	}
	size, err := u.dataSize()
	if err != nil {
		return err
	}
	u.setData(make([]byte, size))
	h.appendUnit(u)
	return nil
}

func checkAxes(naxes []int64) error {
	if len(naxes) > 999 {
		return fail(BadNaxis, "NAXIS = %d", len(naxes))
	}
	for i, n := range naxes {
		if n < 0 {
			return fail(NegAxis, "NAXIS%d = %d", i+1, n)
		}
	}
	if _, ok := pixelBytes(naxes, 8); !ok {
		return fail(BadNaxes, "NAXISn = %v: image too large", naxes)
	}
	return nil
}

// ImageParams describes the current image.
func (h *Handle) ImageParams() (ImageInfo, error) {
	u, err := h.cur()
	if err != nil {
		return ImageInfo{}, err
	}
	l, err := u.image()
	if err != nil {
		return ImageInfo{}, err
	}
	bitpix, _ := u.bitpix()
	return ImageInfo{
		Bitpix:      bitpix,
		EquivBitpix: equivalentBitpix(bitpix, l.zero, l.scale),
		Naxes:       l.naxes,
	}, nil
}

// ResizeImage changes the type and shape of the current image. Existing
// bytes are kept up to the new data size and the rest is zeroed.
func (h *Handle) ResizeImage(bitpix int, naxes []int64) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	if u.hduType() != ImageHDU {
		return fail(NotImage, "HDU is a %s", u.hduType())
	}
	stored, zero, ok := storageBitpix(bitpix)
	if !ok {
		return fail(BadBitpix, "BITPIX = %d", bitpix)
	}
	if err := checkAxes(naxes); err != nil {
		return err
	}
	old, err := u.bytes()
	if err != nil {
		return err
	}

	u.reshapeImage(stored, naxes)
	u.remove("BSCALE")
	u.remove("BZERO")
	if zero != 0 {
		u.set(keyFloat("BZERO", zero, "offset data range to that of unsigned"))
		u.set(keyFloat("BSCALE", 1, "default scaling factor"))
	}

	size, err := u.dataSize()
	if err != nil {
		return err
	}
	data := make([]byte, size)
	copy(data, old)
	u.setData(data)
	return nil
}

// ReadImage returns every pixel of the current image encoded according to
// tag.
func (h *Handle) ReadImage(tag Tag) ([]byte, error) {
	u, err := h.cur()
	if err != nil {
		return nil, err
	}
	l, err := u.image()
	if err != nil {
		return nil, err
	}
	data, err := u.bytes()
	if err != nil {
		return nil, err
	}
	return decodeValues(data, l.stored, l.zero, l.scale, tag, l.npix)
}

// WriteImage replaces every pixel of the current image. value holds the
// pixels encoded according to tag.
func (h *Handle) WriteImage(tag Tag, value []byte) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	l, err := u.image()
	if err != nil {
		return err
	}
	out, err := encodeValues(value, tag, l.stored, l.zero, l.scale, l.npix)
	if err != nil {
		return err
	}
	u.setData(out)
	return nil
}

// ReadSubset returns the pixels of the region from front to back, both
// 1-based and inclusive, in first-axis-fastest order.
func (h *Handle) ReadSubset(tag Tag, front, back []int64) ([]byte, error) {
	u, err := h.cur()
	if err != nil {
		return nil, err
	}
	l, err := u.image()
	if err != nil {
		return nil, err
	}
	data, err := u.bytes()
	if err != nil {
		return nil, err
	}
	n, err := checkSubset(l.naxes, front, back)
	if err != nil {
		return nil, err
	}

	width := int64(l.stored.Width())
	gathered := make([]byte, 0, n*width)
	forEachLine(l.naxes, front, back, func(offset, count int64) {
		gathered = append(gathered, data[offset*width:(offset+count)*width]...)
	})
	return decodeValues(gathered, l.stored, l.zero, l.scale, tag, n)
}

// WriteSubset writes the pixels of the region from front to back, both
// 1-based and inclusive.
func (h *Handle) WriteSubset(tag Tag, front, back []int64, value []byte) error {
	u, err := h.curWrite()
	if err != nil {
		return err
	}
	l, err := u.image()
	if err != nil {
		return err
	}
	n, err := checkSubset(l.naxes, front, back)
	if err != nil {
		return err
	}
	encoded, err := encodeValues(value, tag, l.stored, l.zero, l.scale, n)
	if err != nil {
		return err
	}
	data, err := u.bytes()
	if err != nil {
		return err
	}

	width := int64(l.stored.Width())
	pos := int64(0)
	forEachLine(l.naxes, front, back, func(offset, count int64) {
		copy(data[offset*width:], encoded[pos:pos+count*width])
		pos += count * width
	})
	return nil
}

func checkSubset(naxes, front, back []int64) (int64, error) {
	if len(front) != len(naxes) || len(back) != len(naxes) {
		return 0, fail(BadDimen, "region of rank %d/%d in image of rank %d", len(front), len(back), len(naxes))
	}
	n := int64(1)
	for i := range naxes {
		if front[i] < 1 || back[i] > naxes[i] || front[i] > back[i] {
			return 0, fail(BadPixNum, "axis %d: pixels %d to %d of %d", i+1, front[i], back[i], naxes[i])
		}
		n *= back[i] - front[i] + 1
	}
	return n, nil
}

// forEachLine calls fn with the offset, in pixels, and the length of each
// contiguous run of the region along the first axis.
func forEachLine(naxes, front, back []int64, fn func(offset, count int64)) {
	rank := len(naxes)
	if rank == 0 {
		return
	}
	count := back[0] - front[0] + 1
	pos := make([]int64, rank)
	copy(pos, front)
	for {
		offset := int64(0)
		for i := rank - 1; i >= 0; i-- {
			offset = offset*naxes[i] + pos[i] - 1
		}
		fn(offset, count)

		i := 1
		for ; i < rank; i++ {
			if pos[i] < back[i] {
				pos[i]++
				break
			}
			pos[i] = front[i]
		}
		if i == rank {
			return
		}
	}
}
