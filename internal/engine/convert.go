package engine

import (
	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// decodeValues converts n stored elements to the encoding of tag, applying
// physical = zero + scale*stored.
func decodeValues(src []byte, stored dtype.Type, zero, scale float64, tag Tag, n int64) ([]byte, error) {
	target, ok := tag.Type()
	if !ok {
		return nil, fail(BadDatatype, "cannot read %s values", tag)
	}
	if target == stored && zero == 0 && scale == 1 {
		return append([]byte(nil), src...), nil
	}

	sw, tw := int64(stored.Width()), int64(target.Width())
	out := make([]byte, n*tw)
	for i := int64(0); i < n; i++ {
		v := dtype.Scale(dtype.Load(stored, src[i*sw:]), zero, scale)
		if err := dtype.Store(target, out[i*tw:], v); err != nil {
			return nil, conversionStatus(err, "element %d", i+1)
		}
	}
	return out, nil
}

// encodeValues converts n elements encoded according to tag to the stored
// type, applying stored = (physical - zero) / scale.
func encodeValues(src []byte, tag Tag, stored dtype.Type, zero, scale float64, n int64) ([]byte, error) {
	source, ok := tag.Type()
	if !ok {
		return nil, fail(BadDatatype, "cannot write %s values", tag)
	}
	sw, tw := int64(source.Width()), int64(stored.Width())
	if int64(len(src)) != n*sw {
		return nil, fail(BadDimen, "%d bytes supplied for %d %s values", len(src), n, tag)
	}
	if source == stored && zero == 0 && scale == 1 {
		return append([]byte(nil), src...), nil
	}

	out := make([]byte, n*tw)
	for i := int64(0); i < n; i++ {
		v, err := dtype.Unscale(dtype.Load(source, src[i*sw:]), zero, scale)
		if err == nil {
			err = dtype.Store(stored, out[i*tw:], v)
		}
		if err != nil {
			return nil, conversionStatus(err, "element %d", i+1)
		}
	}
	return out, nil
}
