//go:build manual

package drive

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
	"time"

	domaincreds "drive-image-upload/domain/credentials"
	"drive-image-upload/domain/upload"
	"drive-image-upload/infrastructure/credentials"

	"github.com/rs/zerolog"
)

// TestRealDriveUpload uploads a 2x2 PNG to a real folder
// Run with: DRIVE_TEST_FOLDER=<id> go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveUpload
func TestRealDriveUpload(t *testing.T) {
	folderID := os.Getenv("DRIVE_TEST_FOLDER")
	if folderID == "" {
		t.Skip("DRIVE_TEST_FOLDER not set - skipping real Drive test")
	}

	strategy, err := domaincreds.ParseStrategy(os.Getenv("DRIVE_TEST_STRATEGY"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	connector := NewConnector(credentials.NewResolver(strategy), zerolog.Nop())
	uploader, err := connector.Connect(ctx, "")
	if err != nil {
		t.Skipf("no usable credentials in environment: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	file, err := uploader.CreateFile(ctx, upload.UploadRequest{
		ImageBytes: buf.Bytes(),
		MimeType:   upload.MimeTypePNG,
		FileName:   upload.BuildFileName("manual_test", upload.FormatPNG, time.Now(), true),
		FolderID:   folderID,
	})
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}

	fmt.Printf("\n=== Google Drive Upload Test ===\n")
	fmt.Printf("Uploaded %s (%s)\n", file.Name, file.URL())
}
