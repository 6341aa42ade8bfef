package upload

import (
	"fmt"
	"math"
)

// MaxImageSide is the largest accepted height or width
const MaxImageSide = 1 << 16

// PixelBuffer is a normalized image as supplied by the workflow host.
// Shape is [height, width, channels] or [batch, height, width, channels];
// only the first batch item is used. Values are row-major in [0, 1].
type PixelBuffer struct {
	Shape []int
	Data  []float32
}

// Frame is a single validated image taken from a PixelBuffer
type Frame struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

// Frame returns the first image of the buffer after checking its shape
func (p PixelBuffer) Frame() (Frame, error) {
	var h, w, c, batch int
	switch len(p.Shape) {
	case 3:
		h, w, c, batch = p.Shape[0], p.Shape[1], p.Shape[2], 1
	case 4:
		batch, h, w, c = p.Shape[0], p.Shape[1], p.Shape[2], p.Shape[3]
	default:
		return Frame{}, fmt.Errorf("%w: expected 3 or 4 dimensions, got %d", ErrInvalidPixelBuffer, len(p.Shape))
	}

	if batch < 1 || h < 1 || w < 1 || c < 1 {
		return Frame{}, fmt.Errorf("%w: shape %v has an empty dimension", ErrInvalidPixelBuffer, p.Shape)
	}

	if c != 1 && c != 3 && c != 4 {
		return Frame{}, fmt.Errorf("%w: %d", ErrUnexpectedChannels, c)
	}

	if h > MaxImageSide || w > MaxImageSide {
		return Frame{}, fmt.Errorf("%w: shape %v exceeds %d pixels per side", ErrInvalidPixelBuffer, p.Shape, MaxImageSide)
	}
	if w*c > math.MaxInt/h || batch > math.MaxInt/(h*w*c) {
		return Frame{}, fmt.Errorf("%w: shape %v is too large", ErrInvalidPixelBuffer, p.Shape)
	}

	size := h * w * c
	if len(p.Data) != size*batch {
		return Frame{}, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrInvalidPixelBuffer, p.Shape, size*batch, len(p.Data))
	}

	return Frame{
		Height:   h,
		Width:    w,
		Channels: c,
		Data:     p.Data[:size],
	}, nil
}

// At returns the 8-bit value of channel ch at (x, y).
// Values are scaled by 255 and truncated; out-of-range input is clamped.
func (f Frame) At(x, y, ch int) uint8 {
	v := f.Data[(y*f.Width+x)*f.Channels+ch] * 255
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// EncodedImage is the byte stream produced for upload
type EncodedImage struct {
	Bytes    []byte
	Format   ImageFormat
	MimeType string
}

// Encoder converts a pixel buffer into an encoded image
type Encoder interface {
	Encode(buf PixelBuffer, format ImageFormat, quality int) (*EncodedImage, error)
}
