// Package fits reads and writes FITS files through typed values.
//
// A File holds a primary HDU followed by image and binary table
// extensions. Each HDU exposes its header records through Header, and its
// data through Image or Columns depending on its type:
//
//	f, err := fits.Open("data.fits", fits.Create)
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	raster, _ := fits.NewRaster[float32](fits.NewPosition(640, 480))
//	hdu, err := fits.AssignImageExt(f, "IMAGE", raster)
//	if err != nil {
//	    return err
//	}
//	err = fits.Write(hdu.Header(), "EXPTIME", 1.5, "s", "exposure time")
//
// Typed operations are generic functions taking the access object, such as
// ReadRaster, ReadColumn and Parse. The supported value types are listed
// by Value: bool, the sized integer and float types, complex64, complex128
// and string.
//
// Positions, rows and column indices are 0-based. HDU indices are 1-based,
// the primary HDU being number 1. Rasters store their first axis fastest,
// as FITS images do.
//
// HDUs share the position of the engine in their file and a File must not
// be used from several goroutines at once.
//
// Failures of the underlying engine are reported as *FitsError, with the
// engine status and the file state when the call failed. Conversion
// failures are wrapped in a *TypeError, dimension failures in a
// *ShapeError, writes to read-only files in an *AccessError and records
// that do not fit in a header card in a *KeywordError.
package fits
