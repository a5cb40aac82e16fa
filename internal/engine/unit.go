package engine

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/card"
)

// unit is one header-data unit held in memory.
type unit struct {
	cards []card.Card

	// raw holds the header as read from the file until the first change,
	// so that unmodified headers are written back byte for byte.
	raw []byte

	// The data unit is read from src on first use.
	data    []byte
	loaded  bool
	src     io.ReaderAt
	dataOff int64
	dataLen int64
}

var naxisPattern = regexp.MustCompile(`^NAXIS([0-9]+)$`)

func (u *unit) find(keyword string) int {
	for i, c := range u.cards {
		if strings.EqualFold(c.Keyword, keyword) && c.Kind != card.KindCommentary {
			return i
		}
	}
	return -1
}

func (u *unit) get(keyword string) (card.Card, bool) {
	if i := u.find(keyword); i >= 0 {
		return u.cards[i], true
	}
	return card.Card{}, false
}

func (u *unit) intValue(keyword string) (int64, bool) {
	c, ok := u.get(keyword)
	if !ok {
		return 0, false
	}
	v, err := c.Int()
	return v, err == nil
}

func (u *unit) floatValue(keyword string, def float64) float64 {
	c, ok := u.get(keyword)
	if !ok {
		return def
	}
	v, err := c.Float()
	if err != nil {
		return def
	}
	return v
}

func (u *unit) textValue(keyword string) string {
	c, ok := u.get(keyword)
	if !ok {
		return ""
	}
	v, _ := c.Text()
	return v
}

// set updates the first card with the same keyword or appends c.
func (u *unit) set(c card.Card) {
	u.raw = nil
	if i := u.find(c.Keyword); i >= 0 {
		u.cards[i] = c
		return
	}
	u.cards = append(u.cards, c)
}

func (u *unit) insert(at int, cards ...card.Card) {
	u.raw = nil
	if at <= 0 || at > len(u.cards) {
		at = len(u.cards)
	}
	u.cards = append(u.cards[:at], append(cards, u.cards[at:]...)...)
}

func (u *unit) remove(keyword string) bool {
	i := u.find(keyword)
	if i < 0 {
		return false
	}
	u.raw = nil
	u.cards = append(u.cards[:i], u.cards[i+1:]...)
	return true
}

func (u *unit) append(c card.Card) {
	u.raw = nil
	u.cards = append(u.cards, c)
}

func (u *unit) isPrimary() bool {
	return len(u.cards) > 0 && u.cards[0].Keyword == "SIMPLE"
}

func (u *unit) hduType() HDUType {
	if u.isPrimary() {
		return ImageHDU
	}
	switch strings.TrimSpace(u.textValue("XTENSION")) {
	case "BINTABLE", "A3DTABLE":
		return BinaryTable
	case "TABLE":
		return ASCIITable
	default:
		return ImageHDU
	}
}

func (u *unit) bitpix() (int, error) {
	v, ok := u.intValue("BITPIX")
	if !ok {
		return 0, fail(BadBitpix, "BITPIX keyword is missing or not an integer")
	}
	if _, ok := bitpixType(int(v)); !ok {
		return 0, fail(BadBitpix, "BITPIX = %d", v)
	}
	return int(v), nil
}

func (u *unit) naxes() ([]int64, error) {
	n, ok := u.intValue("NAXIS")
	if !ok || n < 0 || n > 999 {
		return nil, fail(BadNaxis, "NAXIS keyword is missing or invalid")
	}
	naxes := make([]int64, n)
	for i := range naxes {
		v, ok := u.intValue(fmt.Sprintf("NAXIS%d", i+1))
		if !ok || v < 0 {
			return nil, fail(BadNaxes, "NAXIS%d keyword is missing or invalid", i+1)
		}
		naxes[i] = v
	}
	return naxes, nil
}

// maxDataSize bounds data units so that their padded size and end offset
// stay in range.
const maxDataSize = math.MaxInt64 - 2*binary.BlockSize

// mulSize returns a*b for non-negative a and b, or false when the product
// exceeds maxDataSize.
func mulSize(a, b int64) (int64, bool) {
	if a != 0 && b > maxDataSize/a {
		return 0, false
	}
	return a * b, true
}

// pixelBytes returns the size of an image of naxes with width-byte pixels.
func pixelBytes(naxes []int64, width int64) (int64, bool) {
	n := width
	for _, v := range naxes {
		var ok bool
		if n, ok = mulSize(n, v); !ok {
			return 0, false
		}
	}
	return n, true
}

// dataSize returns the size of the data unit without padding.
func (u *unit) dataSize() (int64, error) {
	bitpix, err := u.bitpix()
	if err != nil {
		return 0, err
	}
	naxes, err := u.naxes()
	if err != nil {
		return 0, err
	}
	if len(naxes) == 0 {
		return 0, nil
	}
	n, ok := pixelBytes(naxes, 1)
	if !ok {
		return 0, fail(BadNaxes, "NAXISn = %v: data unit too large", naxes)
	}
	pcount, _ := u.intValue("PCOUNT")
	gcount, ok := u.intValue("GCOUNT")
	if !ok {
		gcount = 1
	}
	if pcount < 0 || gcount < 0 {
		return 0, fail(BadNaxes, "PCOUNT = %d, GCOUNT = %d", pcount, gcount)
	}
	width := int64(bitpix)
	if width < 0 {
		width = -width
	}
	size, ok := int64(0), pcount <= maxDataSize-n
	if ok {
		size, ok = mulSize(pcount+n, gcount)
	}
	if ok {
		size, ok = mulSize(size, width/8)
	}
	if !ok {
		return 0, fail(BadNaxes, "NAXISn = %v, PCOUNT = %d, GCOUNT = %d: data unit too large", naxes, pcount, gcount)
	}
	return size, nil
}

// bytes returns the data unit, reading it from the source on first use.
func (u *unit) bytes() ([]byte, error) {
	if u.loaded {
		return u.data, nil
	}
	data := make([]byte, u.dataLen)
	if u.dataLen > 0 {
		if _, err := u.src.ReadAt(data, u.dataOff); err != nil && err != io.EOF {
			return nil, fail(ReadError, "reading data unit: %v", err)
		}
	}
	u.data = data
	u.loaded = true
	u.src = nil
	return u.data, nil
}

func (u *unit) setData(data []byte) {
	u.data = data
	u.loaded = true
	u.src = nil
}

// headerBytes returns the header as written to a file: the cards, the END
// card and space padding to a whole block.
func (u *unit) headerBytes() ([]byte, error) {
	if u.raw != nil {
		return u.raw, nil
	}
	var buf bytes.Buffer
	for _, c := range u.cards {
		lines, err := c.Format()
		if err != nil {
			return nil, fail(BadKeychar, "formatting %s: %v", c.Keyword, err)
		}
		for _, line := range lines {
			buf.WriteString(line)
		}
	}
	buf.WriteString("END")
	buf.Write(bytes.Repeat([]byte(" "), binary.CardSize-3))
	if pad := binary.PaddedSize(int64(buf.Len())) - int64(buf.Len()); pad > 0 {
		buf.Write(bytes.Repeat([]byte(" "), int(pad)))
	}
	return buf.Bytes(), nil
}

// parseUnits reads every HDU from r. Bytes after the last HDU that do not
// start a new extension are ignored.
func parseUnits(r *binary.Reader) ([]*unit, error) {
	var units []*unit
	for !r.EOF() {
		start := r.Pos()
		if len(units) > 0 {
			head, err := r.At(start).ReadBytes(8)
			if err != nil || string(head) != "XTENSION" {
				break
			}
		}

		lines, err := readHeaderLines(r)
		if err != nil {
			if len(units) > 0 {
				break
			}
			return nil, err
		}
		raw, _ := r.At(start).ReadBytes(int(r.Pos() - start))

		cards, _, err := card.Parse(lines)
		if err != nil {
			return nil, fail(BadKeychar, "HDU %d: %v", len(units)+1, err)
		}

		u := &unit{cards: cards, raw: raw}
		if err := u.validateFirst(len(units) == 0); err != nil {
			return nil, err
		}

		size, err := u.dataSize()
		if err != nil {
			return nil, err
		}
		u.dataOff = r.Pos()
		u.dataLen = size
		u.src = r.Source()
		if size == 0 {
			u.loaded = true
		}
		if size > r.Size()-r.Pos() {
			return nil, fail(EndOfFile, "HDU %d: data unit of %d bytes is truncated", len(units)+1, size)
		}
		r.Skip(binary.PaddedSize(size))
		units = append(units, u)
	}
	if len(units) == 0 {
		return nil, fail(NoSimple, "file is empty")
	}
	return units, nil
}

// readHeaderLines reads header blocks up to and including the one holding
// the END card.
func readHeaderLines(r *binary.Reader) ([]string, error) {
	var lines []string
	for {
		block, err := r.ReadBlock()
		if err != nil {
			return nil, fail(NoEnd, "header ends without END card: %v", err)
		}
		for i := 0; i < binary.CardsPerBlock; i++ {
			line := string(block[i*binary.CardSize : (i+1)*binary.CardSize])
			lines = append(lines, line)
			if strings.TrimRight(line, " ") == "END" {
				return lines, nil
			}
		}
	}
}

func (u *unit) validateFirst(primary bool) error {
	if len(u.cards) == 0 {
		return fail(NoSimple, "empty header")
	}
	first := u.cards[0]
	if primary {
		if first.Keyword != "SIMPLE" || first.Value != "T" {
			return fail(NoSimple, "first keyword is %q", first.Keyword)
		}
		return nil
	}
	if first.Keyword != "XTENSION" {
		return fail(NoXtension, "first keyword is %q", first.Keyword)
	}
	return nil
}

// newImageUnit builds an empty image unit.
func newImageUnit(primary bool, bitpix int, naxes []int64) *unit {
	u := &unit{loaded: true}
	if primary {
		u.cards = append(u.cards, card.Logical("SIMPLE", true, "file does conform to FITS standard"))
	} else {
		u.cards = append(u.cards, card.String("XTENSION", "IMAGE", "IMAGE extension"))
	}
	u.cards = append(u.cards, card.Int("BITPIX", int64(bitpix), "number of bits per data pixel"))
	u.cards = append(u.cards, card.Int("NAXIS", int64(len(naxes)), "number of data axes"))
	for i, n := range naxes {
		u.cards = append(u.cards, card.Int(fmt.Sprintf("NAXIS%d", i+1), n, fmt.Sprintf("length of data axis %d", i+1)))
	}
	if primary {
		u.cards = append(u.cards, card.Logical("EXTEND", true, "FITS dataset may contain extensions"))
	} else {
		u.cards = append(u.cards,
			card.Int("PCOUNT", 0, "required keyword; must = 0"),
			card.Int("GCOUNT", 1, "required keyword; must = 1"))
	}
	return u
}

// reshapeImage rewrites BITPIX and the NAXISn cards, keeping the other
// cards in place.
func (u *unit) reshapeImage(bitpix int, naxes []int64) {
	u.raw = nil
	kept := u.cards[:0:0]
	for _, c := range u.cards {
		if naxisPattern.MatchString(c.Keyword) {
			continue
		}
		kept = append(kept, c)
	}
	u.cards = kept

	u.set(card.Int("BITPIX", int64(bitpix), "number of bits per data pixel"))
	u.set(card.Int("NAXIS", int64(len(naxes)), "number of data axes"))
	at := u.find("NAXIS") + 1
	axes := make([]card.Card, len(naxes))
	for i, n := range naxes {
		axes[i] = card.Int("NAXIS"+strconv.Itoa(i+1), n, fmt.Sprintf("length of data axis %d", i+1))
	}
	u.insert(at, axes...)
}
