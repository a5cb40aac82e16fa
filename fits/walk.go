package fits

import (
	"errors"
	"iter"
)

// WalkFunc is called for each HDU during traversal.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(hdu *HDU) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an
// error.
var ErrStopWalk = &walkStopError{}

type walkStopError struct{}

func (e *walkStopError) Error() string { return "walk stopped" }

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	var stop *walkStopError
	return errors.As(err, &stop)
}

// Walk calls fn for every HDU in file order, primary first.
//
// Example:
//
//	f.Walk(func(hdu *fits.HDU) error {
//	    name, err := hdu.Name()
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(hdu.Index(), hdu.Type(), name)
//	    return nil
//	})
func (f *File) Walk(fn WalkFunc) error {
	n, err := f.Len()
	if err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		hdu, err := f.HDU(i)
		if err != nil {
			return err
		}
		if err := fn(hdu); err != nil {
			if IsStopWalk(err) {
				return nil
			}
			return err
		}
	}
	return nil
}

// HDUFilter selects HDUs.
type HDUFilter func(hdu *HDU) (bool, error)

// OfType selects the HDUs of one of the given categories.
func OfType(types ...HDUType) HDUFilter {
	return func(hdu *HDU) (bool, error) {
		for _, t := range types {
			if hdu.Type() == t {
				return true, nil
			}
		}
		return false, nil
	}
}

// Named selects the HDUs whose EXTNAME is name.
func Named(name string) HDUFilter {
	return func(hdu *HDU) (bool, error) {
		n, err := hdu.Name()
		return n == name, err
	}
}

// Extensions selects every HDU but the primary.
func Extensions() HDUFilter {
	return func(hdu *HDU) (bool, error) {
		return !hdu.IsPrimary(), nil
	}
}

// And selects the HDUs selected by every filter.
func And(filters ...HDUFilter) HDUFilter {
	return func(hdu *HDU) (bool, error) {
		for _, filter := range filters {
			ok, err := filter(hdu)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// All iterates over every HDU. Iteration stops after the first error.
func (f *File) All() iter.Seq2[*HDU, error] {
	return f.Select(nil)
}

// Select iterates over the HDUs selected by filter, or every HDU if filter
// is nil. Iteration stops after the first error.
//
// Example:
//
//	for hdu, err := range f.Select(fits.OfType(fits.BintableHDU)) {
//	    if err != nil {
//	        return err
//	    }
//	    rows, err := hdu.Columns().ReadRowCount()
//	    ...
//	}
func (f *File) Select(filter HDUFilter) iter.Seq2[*HDU, error] {
	return func(yield func(*HDU, error) bool) {
		stopped := false
		err := f.Walk(func(hdu *HDU) error {
			if filter != nil {
				ok, err := filter(hdu)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			if !yield(hdu, nil) {
				stopped = true
				return ErrStopWalk
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}
