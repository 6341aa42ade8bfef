package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrFolderIDRequired is returned when the folder identifier is empty
	ErrFolderIDRequired = errors.New("folder_id is required")

	// ErrInvalidFolderID is returned when nothing remains of the folder identifier after sanitizing
	ErrInvalidFolderID = errors.New("folder_id does not contain a folder identifier")

	// ErrUnsupportedFormat is returned for formats other than PNG, JPEG and WEBP
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidQuality is returned when a JPEG/WEBP quality is out of range
	ErrInvalidQuality = errors.New("invalid quality")

	// ErrUnexpectedChannels is returned for pixel buffers that are not gray, RGB or RGBA
	ErrUnexpectedChannels = errors.New("unexpected number of channels")

	// ErrInvalidPixelBuffer is returned when the buffer shape and data disagree
	ErrInvalidPixelBuffer = errors.New("invalid pixel buffer")

	// ErrEmptyImage is returned when an upload request carries no bytes
	ErrEmptyImage = errors.New("image data is empty")
)

// UnsupportedFormatError names the rejected format selector
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported format %s", e.Format)
}

// Is makes errors.Is(err, ErrUnsupportedFormat) match
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}
