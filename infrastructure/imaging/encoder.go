package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"drive-image-upload/domain/upload"
)

// WebPEncoder encodes an image as WEBP at the given quality
type WebPEncoder interface {
	EncodeWebP(img image.Image, quality int) ([]byte, error)
}

// Encoder implements upload.Encoder
type Encoder struct {
	webp WebPEncoder
}

// EncoderOption is a functional option for configuring Encoder
type EncoderOption func(*Encoder)

// WithWebPEncoder sets a custom WEBP encoder
func WithWebPEncoder(w WebPEncoder) EncoderOption {
	return func(e *Encoder) {
		e.webp = w
	}
}

// NewEncoder creates an encoder; WEBP support depends on the build (see webp_encoder.go)
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{webp: NewWebPEncoder()}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Encode converts the first image of buf into the requested format
func (e *Encoder) Encode(buf upload.PixelBuffer, format upload.ImageFormat, quality int) (*upload.EncodedImage, error) {
	if err := format.ValidateQuality(quality); err != nil {
		return nil, err
	}

	img, err := ToImage(buf)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	switch format {
	case upload.FormatPNG:
		if err := png.Encode(&out, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	case upload.FormatJPEG:
		// JPEG has no alpha channel
		if hasAlpha(img) {
			img = FlattenOnWhite(img)
		}
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case upload.FormatWEBP:
		b, err := e.webp.EncodeWebP(img, quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode WEBP: %w", err)
		}
		out.Write(b)
	default:
		return nil, &upload.UnsupportedFormatError{Format: string(format)}
	}

	return &upload.EncodedImage{
		Bytes:    out.Bytes(),
		Format:   format,
		MimeType: format.MimeType(),
	}, nil
}

// ToImage converts a pixel buffer to a gray, RGB (opaque RGBA) or non-premultiplied RGBA image
func ToImage(buf upload.PixelBuffer) (image.Image, error) {
	f, err := buf.Frame()
	if err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, f.Width, f.Height)
	switch f.Channels {
	case 1:
		img := image.NewGray(rect)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				img.Pix[y*img.Stride+x] = f.At(x, y, 0)
			}
		}
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				i := y*img.Stride + x*4
				img.Pix[i] = f.At(x, y, 0)
				img.Pix[i+1] = f.At(x, y, 1)
				img.Pix[i+2] = f.At(x, y, 2)
				img.Pix[i+3] = 0xff
			}
		}
		return img, nil
	case 4:
		img := image.NewNRGBA(rect)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				i := y*img.Stride + x*4
				for ch := 0; ch < 4; ch++ {
					img.Pix[i+ch] = f.At(x, y, ch)
				}
			}
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: %d", upload.ErrUnexpectedChannels, f.Channels)
}

// FlattenOnWhite composites img over an opaque white background using its alpha
func FlattenOnWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}

func hasAlpha(img image.Image) bool {
	switch v := img.(type) {
	case *image.Gray:
		return false
	case *image.RGBA:
		return !v.Opaque()
	case *image.NRGBA:
		return !v.Opaque()
	}
	return true
}

// FromImage converts a decoded image to a normalized pixel buffer.
// Images without transparency become RGB; grayscale images stay single-channel.
func FromImage(img image.Image) upload.PixelBuffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	channels := 4
	switch v := img.(type) {
	case *image.Gray:
		channels = 1
	case interface{ Opaque() bool }:
		if v.Opaque() {
			channels = 3
		}
	}

	data := make([]float32, 0, w*h*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if channels == 1 {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				data = append(data, normalize(g.Y))
				continue
			}
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, normalize(c.R), normalize(c.G), normalize(c.B))
			if channels == 4 {
				data = append(data, normalize(c.A))
			}
		}
	}

	return upload.PixelBuffer{
		Shape: []int{h, w, channels},
		Data:  data,
	}
}

// normalize maps v into [0, 1] so that scaling by 255 and truncating yields v again
func normalize(v uint8) float32 {
	if v == 0xff {
		return 1
	}
	return (float32(v) + 0.5) / 255
}

// Ensure Encoder implements upload.Encoder
var _ upload.Encoder = (*Encoder)(nil)
