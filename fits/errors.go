package fits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/engine"
)

// Common errors
var (
	ErrClosed      = errors.New("file is closed")
	ErrNotImage    = errors.New("HDU is not an image")
	ErrNotBintable = errors.New("HDU is not a binary table")
	ErrNotFound    = errors.New("HDU not found")
)

// unknown replaces context that could not be read.
const unknown = "unknown"

// FitsError is a failed engine call. It carries the engine status and the
// state of the file when the call failed, read on a best-effort basis:
// File and HDUName are "unknown" and HDUIndex is 0 when they could not be
// read.
type FitsError struct {
	// Op describes what was attempted.
	Op string
	// Status is the engine status code.
	Status int
	// Message is the description of Status.
	Message string
	// Detail is the engine's own message, if any.
	Detail   string
	File     string
	HDUIndex int
	HDUName  string
}

func (e *FitsError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s (status %d)", e.Message, e.Status)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	index := unknown
	if e.HDUIndex > 0 {
		index = "#" + strconv.Itoa(e.HDUIndex)
	}
	fmt.Fprintf(&b, " [file %s, HDU %s %q]", e.File, index, e.HDUName)
	return b.String()
}

// Unwrap returns the sentinel error matching the status, if any.
func (e *FitsError) Unwrap() error {
	switch engine.Status(e.Status) {
	case engine.BadFileptr:
		return ErrClosed
	case engine.NotImage:
		return ErrNotImage
	case engine.NotBtable:
		return ErrNotBintable
	case engine.BadHDUNum:
		return ErrNotFound
	}
	return nil
}

// TypeError reports a value read or written with a type that does not
// match the stored one, or a type with no representation in the context.
type TypeError struct {
	Type   string
	Reason string
	Err    error
}

func (e *TypeError) Error() string {
	msg := "type error"
	if e.Type != "" {
		msg += ": " + e.Type
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() error { return e.Err }

// ShapeError reports negative or inconsistent dimensions.
type ShapeError struct {
	Reason string
	Err    error
}

func (e *ShapeError) Error() string {
	msg := "shape error"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ShapeError) Unwrap() error { return e.Err }

// OutOfBoundsError reports an index outside of an array. It unwraps to a
// *ShapeError.
type OutOfBoundsError struct {
	Index Position
	Shape Position
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("index %s out of bounds of shape %s", e.Index, e.Shape)
}

func (e *OutOfBoundsError) Unwrap() error {
	return &ShapeError{Reason: "index out of bounds"}
}

// AccessError reports a write to a read-only file or a const container, or
// the deletion of a read-only file.
type AccessError struct {
	Reason string
	Err    error
}

func (e *AccessError) Error() string {
	msg := "access error"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AccessError) Unwrap() error { return e.Err }

// KeywordError reports a record that cannot be written to a header: the
// keyword is malformed or too long, or the value and comment do not fit in
// a card. Values are never truncated.
type KeywordError struct {
	Reason string
	Err    error
}

func (e *KeywordError) Error() string {
	msg := "keyword error"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *KeywordError) Unwrap() error { return e.Err }

// ChecksumError reports a missing or wrong DATASUM or CHECKSUM keyword.
type ChecksumError struct {
	HDUIndex int
	Data     ChecksumState
	HDU      ChecksumState
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum error in HDU #%d: data checksum %s, HDU checksum %s", e.HDUIndex, e.Data, e.HDU)
}

// KeywordExistsError reports a record created with CreateUnique when the
// keyword is already present.
type KeywordExistsError struct {
	Keyword string
}

func (e *KeywordExistsError) Error() string {
	return fmt.Sprintf("keyword %s already exists", e.Keyword)
}

// KeywordNotFoundError reports a missing keyword.
type KeywordNotFoundError struct {
	Keyword string
	Err     error
}

func (e *KeywordNotFoundError) Error() string {
	msg := fmt.Sprintf("keyword %s not found", e.Keyword)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *KeywordNotFoundError) Unwrap() error { return e.Err }
