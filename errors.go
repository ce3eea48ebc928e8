package jpegutil

import (
	"errors"
	"fmt"
)

// ErrTooManyWarnings signals that the codec reported more recoverable
// corruption warnings than tolerated within one decode; the result would be
// a silently partial image, so the whole decode fails instead.
var ErrTooManyWarnings = errors.New("jpegutil: too many corrupt-data warnings")

// DimensionMismatchError is returned when the codec reports decoded
// dimensions that differ from the caller-declared ones. Nothing has been
// written to the output frame when this is returned.
type DimensionMismatchError struct {
	Declared ImageConfig
	Decoded  ImageConfig
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("jpegutil: declared image size %dx%d, JPEG was %dx%d",
		e.Declared.Width, e.Declared.Height, e.Decoded.Width, e.Decoded.Height)
}

// IsDimensionMismatch reports whether err is a DimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var e *DimensionMismatchError
	return errors.As(err, &e)
}

// CodecError wraps an unrecoverable failure reported by the codec
// collaborator. The in-progress call has been aborted and all per-call
// resources released by the time it is returned.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("jpegutil: %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// IsCodecError reports whether err is a CodecError.
func IsCodecError(err error) bool {
	var e *CodecError
	return errors.As(err, &e)
}

func errImageTooSmall(n, width, height int) error {
	return fmt.Errorf("pixel buffer is %d bytes, need %d for %dx%d", n, width*height, width, height)
}
