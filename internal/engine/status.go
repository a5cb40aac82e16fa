package engine

import (
	"errors"
	"fmt"
)

// Status is a FITS engine status code. Zero means success; every error
// returned by this package carries a non-zero Status (see [StatusOf]).
type Status int

// Status codes.
const (
	OK                Status = 0
	FileNotOpened     Status = 104
	FileNotCreated    Status = 105
	WriteError        Status = 106
	EndOfFile         Status = 107
	ReadError         Status = 108
	FileNotClosed     Status = 110
	ReadonlyFile      Status = 112
	BadFileptr        Status = 114
	KeyNoExist        Status = 202
	KeyOutBounds      Status = 203
	ValueUndefined    Status = 204
	NoQuote           Status = 205
	BadKeychar        Status = 207
	BadOrder          Status = 208
	NoEnd             Status = 210
	BadBitpix         Status = 211
	BadNaxis          Status = 212
	BadNaxes          Status = 213
	BadTfields        Status = 216
	NegRows           Status = 218
	ColNotFound       Status = 219
	NoSimple          Status = 221
	NoXtension        Status = 225
	NotBtable         Status = 227
	NotImage          Status = 233
	ColNotUnique      Status = 237
	UnknownExt        Status = 251
	BadTform          Status = 261
	BadTformDtype     Status = 262
	BadHDUNum         Status = 301
	BadColNum         Status = 302
	BadRowNum         Status = 307
	BadElemNum        Status = 308
	NotLogicalCol     Status = 310
	BadDimen          Status = 320
	BadPixNum         Status = 321
	ZeroScale         Status = 322
	NegAxis           Status = 323
	BadF2C            Status = 402
	BadIntkey         Status = 403
	BadLogicalkey     Status = 404
	BadFloatkey       Status = 405
	BadDoublekey      Status = 406
	BadC2I            Status = 407
	BadC2F            Status = 408
	BadC2D            Status = 409
	BadDatatype       Status = 410
	NumOverflow       Status = 412
	DataCompression   Status = 413
	DataDecompression Status = 414
)

var statusText = map[Status]string{
	OK:                "OK - no error",
	FileNotOpened:     "could not open the named file",
	FileNotCreated:    "could not create the named file",
	WriteError:        "error writing to FITS file",
	EndOfFile:         "tried to move past end of file",
	ReadError:         "error reading from FITS file",
	FileNotClosed:     "could not close the file",
	ReadonlyFile:      "cannot write to readonly file",
	BadFileptr:        "invalid fitsfile pointer",
	KeyNoExist:        "keyword not found in header",
	KeyOutBounds:      "keyword record number is out of bounds",
	ValueUndefined:    "keyword value field is blank",
	NoQuote:           "string is missing the closing quote",
	BadKeychar:        "illegal character in keyword name or card",
	BadOrder:          "required keywords out of order",
	NoEnd:             "couldn't find END keyword",
	BadBitpix:         "illegal BITPIX keyword value",
	BadNaxis:          "illegal NAXIS keyword value",
	BadNaxes:          "illegal NAXISn keyword value",
	BadTfields:        "illegal TFIELDS keyword value",
	NegRows:           "negative number of rows in table",
	ColNotFound:       "column name not found in table",
	NoSimple:          "first keyword not SIMPLE = T",
	NoXtension:        "missing XTENSION keyword",
	NotBtable:         "this HDU is not a binary table",
	NotImage:          "this HDU is not an image",
	ColNotUnique:      "more than 1 column name matches template",
	UnknownExt:        "unrecognizable FITS extension type",
	BadTform:          "illegal TFORM format code",
	BadTformDtype:     "unrecognizable TFORM datatype code",
	BadHDUNum:         "HDU number < 1 or > MAXHDU",
	BadColNum:         "column number < 1 or > tfields",
	BadRowNum:         "bad first row number",
	BadElemNum:        "bad first element number",
	NotLogicalCol:     "this is not a logical datatype column",
	BadDimen:          "illegal number of dimensions in array",
	BadPixNum:         "first pixel number greater than last pixel",
	ZeroScale:         "illegal BSCALE or TSCALn keyword = 0",
	NegAxis:           "illegal axis length < 1",
	BadF2C:            "bad float to formatted string conversion",
	BadIntkey:         "can't interpret keyword value as integer",
	BadLogicalkey:     "can't interpret keyword value as logical",
	BadFloatkey:       "can't interpret keyword value as float",
	BadDoublekey:      "can't interpret keyword value as double",
	BadC2I:            "bad formatted string to int conversion",
	BadC2F:            "bad formatted string to float conversion",
	BadC2D:            "bad formatted string to double conversion",
	BadDatatype:       "illegal datatype code value",
	NumOverflow:       "arithmetic overflow during datatype conversion",
	DataCompression:   "error compressing image",
	DataDecompression: "error uncompressing image",
}

// Text returns the short description of the status.
func (s Status) Text() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return "unknown error status"
}

func (s Status) Error() string {
	return fmt.Sprintf("%s (status %d)", s.Text(), int(s))
}

// StatusOf extracts the Status from err, or returns OK when err is nil and
// ReadError when err carries no Status.
func StatusOf(err error) Status {
	if err == nil {
		return OK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return ReadError
}

// Error is a failed engine call: a Status and a detailed message.
type Error struct {
	Status Status
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Status.Error()
	}
	return fmt.Sprintf("%s: %s", e.Status.Error(), e.Detail)
}

// Unwrap returns the Status.
func (e *Error) Unwrap() error {
	return e.Status
}

// fail returns status as an *Error with a formatted detail message.
func fail(status Status, format string, args ...any) error {
	return &Error{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// DetailOf returns the detail message of err, if any.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ""
}
