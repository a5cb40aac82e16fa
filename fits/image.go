package fits

import (
	"fmt"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// ImageRaster reads and writes the data unit of an image HDU.
type ImageRaster struct {
	a     *adapter
	index int
}

func (img *ImageRaster) params() (engine.ImageInfo, error) {
	eh, err := img.a.at(img.index)
	if err != nil {
		return engine.ImageInfo{}, err
	}
	info, err := eh.ImageParams()
	if err != nil {
		return engine.ImageInfo{}, img.a.fail(err, "reading image parameters")
	}
	return info, nil
}

// ReadShape returns the shape of the image. An image with no data has
// rank 0.
func (img *ImageRaster) ReadShape() (Position, error) {
	info, err := img.params()
	if err != nil {
		return nil, err
	}
	return Position(info.Naxes), nil
}

// ReadTypeCode returns the type code of the physical values of the image,
// which accounts for BZERO and BSCALE.
func (img *ImageRaster) ReadTypeCode() (TypeCode, error) {
	info, err := img.params()
	if err != nil {
		return TypeCode{}, err
	}
	return imageCode(info.EquivBitpix)
}

// ReadSize returns the number of pixels.
func (img *ImageRaster) ReadSize() (int64, error) {
	shape, err := img.ReadShape()
	if err != nil {
		return 0, err
	}
	return ShapeSize(shape)
}

// UpdateShape changes the shape of the image and keeps its value type.
// Pixels are kept in storage order up to the new size and the others hold
// a stored zero, which reads as the offset of unsigned types. Scaling other
// than the unsigned offsets is dropped.
func (img *ImageRaster) UpdateShape(shape Position) error {
	info, err := img.params()
	if err != nil {
		return err
	}
	bitpix := info.Bitpix
	switch info.EquivBitpix {
	case engine.SByteImg, engine.UShortImg, engine.ULongImg, engine.ULongLongImg:
		bitpix = info.EquivBitpix
	}
	return img.resize(bitpix, shape)
}

// UpdateTypeShape changes the value type and the shape of the image.
func UpdateTypeShape[T Value](img *ImageRaster, shape Position) error {
	bitpix, err := TypeCodeOf[T]().ImageBitpix()
	if err != nil {
		return err
	}
	return img.resize(bitpix, shape)
}

func (img *ImageRaster) resize(bitpix int, shape Position) error {
	if _, err := ShapeSize(shape); err != nil {
		return err
	}
	eh, err := img.a.at(img.index)
	if err != nil {
		return err
	}
	if err := eh.ResizeImage(bitpix, shape); err != nil {
		return img.a.fail(err, "resizing image to %s", shape)
	}
	return nil
}

// ReadRaster reads the whole image as a raster of T. Values are converted
// from the stored type and fail with a *TypeError when out of range.
func ReadRaster[T Value](img *ImageRaster) (*Raster[T], error) {
	shape, err := img.ReadShape()
	if err != nil {
		return nil, err
	}
	data, err := readPixels[T](img.a, img.index, nil, nil)
	if err != nil {
		return nil, err
	}
	return wrapRaster(shape, data, Owning)
}

// ReadRasterTo reads the whole image into dst, which must have the shape
// of the image.
func ReadRasterTo[T Value](img *ImageRaster, dst *Raster[T]) error {
	if err := dst.writable(); err != nil {
		return err
	}
	shape, err := img.ReadShape()
	if err != nil {
		return err
	}
	if !shape.Equal(dst.Shape()) {
		return &ShapeError{Reason: fmt.Sprintf("reading image of shape %s into raster of shape %s", shape, dst.Shape())}
	}
	data, err := readPixels[T](img.a, img.index, nil, nil)
	if err != nil {
		return err
	}
	copy(dst.data, data)
	return nil
}

// WriteRaster writes the whole image. The raster must have the shape of
// the image; use UpdateShape or UpdateTypeShape first to change it.
func WriteRaster[T Value](img *ImageRaster, r *Raster[T]) error {
	shape, err := img.ReadShape()
	if err != nil {
		return err
	}
	if !shape.Equal(r.Shape()) {
		return &ShapeError{Reason: fmt.Sprintf("writing raster of shape %s to image of shape %s", r.Shape(), shape)}
	}
	return writePixels(img.a, img.index, nil, nil, r.Data())
}

// ReadRegion reads the pixels of region. Negative back coordinates count
// from the end of the axis, -1 being the last index.
func ReadRegion[T Value](img *ImageRaster, region Region) (*Raster[T], error) {
	shape, err := img.ReadShape()
	if err != nil {
		return nil, err
	}
	resolved, err := region.Resolve(shape)
	if err != nil {
		return nil, err
	}
	data, err := readPixels[T](img.a, img.index, resolved.Front, resolved.Back)
	if err != nil {
		return nil, err
	}
	return wrapRaster(resolved.Shape(), data, Owning)
}

// WriteRegion writes r into the image with its first pixel at front.
func WriteRegion[T Value](img *ImageRaster, front Position, r *Raster[T]) error {
	region, err := RegionFromShape(front, r.Shape())
	if err != nil {
		return err
	}
	shape, err := img.ReadShape()
	if err != nil {
		return err
	}
	if _, err := region.Resolve(shape); err != nil {
		return err
	}
	return writePixels(img.a, img.index, region.Front, region.Back, r.Data())
}
