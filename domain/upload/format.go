package upload

import (
	"fmt"
	"strings"
)

// ImageFormat is the encoding used for the uploaded image
type ImageFormat string

// Supported image formats
const (
	FormatPNG  ImageFormat = "PNG"
	FormatJPEG ImageFormat = "JPEG"
	FormatWEBP ImageFormat = "WEBP"
)

// MIME type constants for the supported formats
const (
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
	MimeTypeWEBP = "image/webp"
)

// Quality bounds for lossy formats
const (
	MinQuality = 1
	MaxQuality = 100
)

// ParseFormat parses a format selector such as "png" or "JPEG"
func ParseFormat(s string) (ImageFormat, error) {
	switch ImageFormat(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatJPEG:
		return FormatJPEG, nil
	case FormatWEBP:
		return FormatWEBP, nil
	}
	return "", &UnsupportedFormatError{Format: s}
}

// Extension returns the file extension without the leading dot
func (f ImageFormat) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return strings.ToLower(string(f))
}

// MimeType returns the MIME type for the format
func (f ImageFormat) MimeType() string {
	switch f {
	case FormatJPEG:
		return MimeTypeJPEG
	case FormatWEBP:
		return MimeTypeWEBP
	default:
		return MimeTypePNG
	}
}

// Lossy reports whether the format takes a quality setting
func (f ImageFormat) Lossy() bool {
	return f == FormatJPEG || f == FormatWEBP
}

// ValidateQuality checks the quality bounds for lossy formats
func (f ImageFormat) ValidateQuality(quality int) error {
	if !f.Lossy() {
		return nil
	}
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidQuality, quality, MinQuality, MaxQuality)
	}
	return nil
}
