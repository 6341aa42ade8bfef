//go:build opencv

package imaging

import (
	"testing"

	"drive-image-upload/domain/upload"

	"gocv.io/x/gocv"
)

func TestGoCVWebPEncoder_PreservesDimensions(t *testing.T) {
	for _, channels := range []int{1, 3, 4} {
		enc, err := NewEncoder().Encode(patternBuffer(6, 9, channels), upload.FormatWEBP, 80)
		if err != nil {
			t.Fatalf("channels=%d: unexpected error: %v", channels, err)
		}
		if string(enc.Bytes[8:12]) != "WEBP" {
			t.Fatalf("channels=%d: output is not a WEBP container", channels)
		}

		mat, err := gocv.IMDecode(enc.Bytes, gocv.IMReadUnchanged)
		if err != nil {
			t.Fatalf("channels=%d: decode failed: %v", channels, err)
		}
		if mat.Rows() != 6 || mat.Cols() != 9 {
			t.Errorf("channels=%d: expected 9x6, got %dx%d", channels, mat.Cols(), mat.Rows())
		}
		mat.Close()
	}
}
