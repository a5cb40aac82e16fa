package fits

// Subraster is a view of a region of a Raster. It shares the buffer of its
// parent and must not outlive it. Positions are relative to the front of
// the region.
type Subraster[T Value] struct {
	parent *Raster[T]
	region Region
}

// Parent returns the raster the view belongs to.
func (s *Subraster[T]) Parent() *Raster[T] {
	return s.parent
}

// Region returns the region of the parent covered by the view.
func (s *Subraster[T]) Region() Region {
	return Region{Front: s.region.Front.Clone(), Back: s.region.Back.Clone()}
}

// Shape returns the shape of the region.
func (s *Subraster[T]) Shape() Position {
	return s.region.Shape()
}

// Size returns the number of elements in the region.
func (s *Subraster[T]) Size() int64 {
	return s.region.Size()
}

func (s *Subraster[T]) parentPos(pos Position) (Position, error) {
	shape := s.Shape()
	if len(pos) != len(shape) {
		return nil, &OutOfBoundsError{Index: pos.Clone(), Shape: shape}
	}
	for i, v := range pos {
		if v < 0 || v >= shape[i] {
			return nil, &OutOfBoundsError{Index: pos.Clone(), Shape: shape}
		}
	}
	return s.region.Front.Add(pos)
}

// At returns the element at pos, checking bounds.
func (s *Subraster[T]) At(pos Position) (T, error) {
	p, err := s.parentPos(pos)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.parent.Get(p), nil
}

// Get returns the element at pos without checking bounds.
func (s *Subraster[T]) Get(pos Position) T {
	p, _ := s.region.Front.Add(pos)
	return s.parent.Get(p)
}

// Set assigns v to the element at pos.
func (s *Subraster[T]) Set(pos Position, v T) error {
	if err := s.parent.writable(); err != nil {
		return err
	}
	p, err := s.parentPos(pos)
	if err != nil {
		return err
	}
	s.parent.data[s.parent.Index(p)] = v
	return nil
}

// Values returns a copy of the elements, first axis varying fastest.
func (s *Subraster[T]) Values() []T {
	values := make([]T, 0, s.Size())
	for p := range s.region.Positions() {
		values = append(values, s.parent.Get(p))
	}
	return values
}

// Clone returns an owning raster holding a copy of the region.
func (s *Subraster[T]) Clone() *Raster[T] {
	return &Raster[T]{shape: s.Shape(), data: s.Values(), mode: Owning}
}
