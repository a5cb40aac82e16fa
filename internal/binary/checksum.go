package binary

// ZeroChecksum is the placeholder written in the CHECKSUM card while the
// HDU sum is computed.
const ZeroChecksum = "0000000000000000"

// Sum32 accumulates data into a 32-bit ones' complement sum, as defined by
// the FITS checksum convention. data is read as big-endian 32-bit words and
// its length must be a multiple of 4, which holds for whole blocks.
func Sum32(data []byte, sum uint32) uint32 {
	hi := uint64(sum >> 16)
	lo := uint64(sum & 0xFFFF)

	for i := 0; i+3 < len(data); i += 4 {
		hi += uint64(data[i])<<8 | uint64(data[i+1])
		lo += uint64(data[i+2])<<8 | uint64(data[i+3])
	}

	return fold(hi, lo)
}

// AddSums combines two ones' complement sums.
func AddSums(a, b uint32) uint32 {
	hi := uint64(a>>16) + uint64(b>>16)
	lo := uint64(a&0xFFFF) + uint64(b&0xFFFF)
	return fold(hi, lo)
}

func fold(hi, lo uint64) uint32 {
	hicarry := hi >> 16
	locarry := lo >> 16
	for hicarry != 0 || locarry != 0 {
		hi = (hi & 0xFFFF) + locarry
		lo = (lo & 0xFFFF) + hicarry
		hicarry = hi >> 16
		locarry = lo >> 16
	}
	return uint32(hi<<16 | lo)
}

// checksumExcluded are the ASCII punctuation characters the encoding avoids.
var checksumExcluded = [...]int{
	0x3a, 0x3b, 0x3c, 0x3d, 0x3e, 0x3f, 0x40,
	0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
}

// EncodeChecksum encodes a 32-bit sum as the 16-character ASCII string
// stored in the CHECKSUM card. With complement set, the one's complement
// of value is encoded, which makes the HDU sum to -0 once the card is in
// place.
func EncodeChecksum(value uint32, complement bool) string {
	if complement {
		value = ^value
	}

	const offset = 0x30
	var asc [16]byte

	for i := 0; i < 4; i++ {
		b := int(value>>(24-8*uint(i))) & 0xFF
		quotient := b/4 + offset
		remainder := b % 4

		ch := [4]int{quotient + remainder, quotient, quotient, quotient}

		for check := true; check; {
			check = false
			for _, x := range checksumExcluded {
				for j := 0; j < 4; j += 2 {
					if ch[j] == x || ch[j+1] == x {
						ch[j]++
						ch[j+1]--
						check = true
					}
				}
			}
		}

		for j := 0; j < 4; j++ {
			asc[4*j+i] = byte(ch[j])
		}
	}

	// The stored string is rotated right by one character.
	var out [16]byte
	for i := range out {
		out[i] = asc[(i+15)%16]
	}
	return string(out[:])
}
