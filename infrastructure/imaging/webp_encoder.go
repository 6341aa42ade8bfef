//go:build opencv

package imaging

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// webpFileExt selects OpenCV's WEBP codec
const webpFileExt gocv.FileExt = ".webp"

// GoCVWebPEncoder encodes WEBP through OpenCV's imencode
type GoCVWebPEncoder struct{}

// NewWebPEncoder returns the OpenCV-backed WEBP encoder
func NewWebPEncoder() WebPEncoder {
	return GoCVWebPEncoder{}
}

// EncodeWebP encodes img at quality 1-100; alpha is kept for 4-channel input
func (GoCVWebPEncoder) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncodeWithParams(webpFileExt, mat, []int{gocv.IMWriteWebpQuality, quality})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// toMat copies img into an 8-bit Mat in OpenCV channel order (gray, BGR or BGRA)
func toMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		data := make([]byte, 0, w*h)
		for y := 0; y < h; y++ {
			data = append(data, gray.Pix[y*gray.Stride:y*gray.Stride+w]...)
		}
		return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, data)
	}

	alpha := hasAlpha(img)
	channels := 3
	matType := gocv.MatTypeCV8UC3
	if alpha {
		channels = 4
		matType = gocv.MatTypeCV8UC4
	}

	data := make([]byte, 0, w*h*channels)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, c.B, c.G, c.R)
			if alpha {
				data = append(data, c.A)
			}
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, matType, data)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to build image matrix: %w", err)
	}
	return mat, nil
}
