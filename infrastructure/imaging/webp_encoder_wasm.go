//go:build !opencv

package imaging

import (
	"bytes"
	"image"

	"github.com/gen2brain/webp"
)

// WasmWebPEncoder encodes WEBP with libwebp compiled to WebAssembly
type WasmWebPEncoder struct{}

// NewWebPEncoder returns the pure-Go WEBP encoder; build with -tags=opencv to use OpenCV instead
func NewWebPEncoder() WebPEncoder {
	return WasmWebPEncoder{}
}

// EncodeWebP encodes img at quality 1-100; alpha is kept for 4-channel input
func (WasmWebPEncoder) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	var out bytes.Buffer
	if err := webp.Encode(&out, img, webp.Options{Quality: quality, Method: 4}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
