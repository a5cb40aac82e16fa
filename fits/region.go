package fits

import (
	"fmt"
	"iter"
)

// Region is an axis-aligned box from Front to Back, both inclusive.
//
// The whole region of a given rank, returned by WholeRegion, stands for
// every position of an array whose shape is not known yet. Negative back
// coordinates count from the end of the axis once resolved against a
// shape: -1 is the last index.
type Region struct {
	Front Position
	Back  Position
}

// NewRegion returns the region from front to back.
func NewRegion(front, back Position) (Region, error) {
	r := Region{Front: front.Clone(), Back: back.Clone()}
	if err := r.check(); err != nil {
		return Region{}, err
	}
	return r, nil
}

// RegionFromShape returns the region of the given shape starting at front.
func RegionFromShape(front, shape Position) (Region, error) {
	if len(front) != len(shape) {
		return Region{}, &ShapeError{Reason: fmt.Sprintf("rank mismatch: front %d, shape %d", len(front), len(shape))}
	}
	back := make(Position, len(front))
	for i := range front {
		if shape[i] < 1 {
			return Region{}, &ShapeError{Reason: fmt.Sprintf("extent %d along axis %d", shape[i], i)}
		}
		back[i] = front[i] + shape[i] - 1
	}
	return Region{Front: front.Clone(), Back: back}, nil
}

// WholeRegion returns the region covering any array of the given rank.
func WholeRegion(rank int) Region {
	return Region{Front: ZeroPosition(rank), Back: FilledPosition(rank, -1)}
}

func (r Region) check() error {
	if len(r.Front) != len(r.Back) {
		return &ShapeError{Reason: fmt.Sprintf("rank mismatch: front %d, back %d", len(r.Front), len(r.Back))}
	}
	for i := range r.Front {
		if r.Front[i] > r.Back[i] {
			return &ShapeError{Reason: fmt.Sprintf("front %s after back %s along axis %d", r.Front, r.Back, i)}
		}
	}
	return nil
}

// Rank returns the number of axes.
func (r Region) Rank() int {
	return len(r.Front)
}

// Shape returns Back - Front + 1.
func (r Region) Shape() Position {
	shape := make(Position, len(r.Front))
	for i := range shape {
		shape[i] = r.Back[i] - r.Front[i] + 1
	}
	return shape
}

// Size returns the number of positions in the region.
func (r Region) Size() int64 {
	size, err := ShapeSize(r.Shape())
	if err != nil {
		return 0
	}
	return size
}

// Contains reports whether pos lies in the region.
func (r Region) Contains(pos Position) bool {
	if len(pos) != len(r.Front) {
		return false
	}
	for i, v := range pos {
		if v < r.Front[i] || v > r.Back[i] {
			return false
		}
	}
	return true
}

// Shift returns the region translated by delta.
func (r Region) Shift(delta Position) (Region, error) {
	front, err := r.Front.Add(delta)
	if err != nil {
		return Region{}, err
	}
	back, err := r.Back.Add(delta)
	if err != nil {
		return Region{}, err
	}
	return Region{Front: front, Back: back}, nil
}

// Resolve returns the region with negative back coordinates replaced by
// their offset from the end of shape, and checks that the result lies
// within shape.
func (r Region) Resolve(shape Position) (Region, error) {
	if len(r.Front) != len(shape) || len(r.Back) != len(shape) {
		return Region{}, &ShapeError{Reason: fmt.Sprintf("region of rank %d in array of rank %d", len(r.Front), len(shape))}
	}
	out := Region{Front: r.Front.Clone(), Back: r.Back.Clone()}
	for i := range shape {
		if out.Back[i] < 0 {
			out.Back[i] += shape[i]
		}
		if out.Front[i] < 0 || out.Back[i] >= shape[i] {
			return Region{}, &OutOfBoundsError{Index: out.Back.Clone(), Shape: shape.Clone()}
		}
	}
	if err := out.check(); err != nil {
		return Region{}, err
	}
	return out, nil
}

// Positions iterates over the positions of the region with the first axis
// varying fastest, the order of the flat buffers exchanged with files.
func (r Region) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if len(r.Front) == 0 || r.check() != nil {
			return
		}
		pos := r.Front.Clone()
		for {
			if !yield(pos.Clone()) {
				return
			}
			i := 0
			for ; i < len(pos); i++ {
				if pos[i] < r.Back[i] {
					pos[i]++
					break
				}
				pos[i] = r.Front[i]
			}
			if i == len(pos) {
				return
			}
		}
	}
}

func (r Region) String() string {
	return r.Front.String() + "-" + r.Back.String()
}
