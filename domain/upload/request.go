package upload

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of the optional filename timestamp (YYYYMMDD_HHMMSS)
const TimestampLayout = "20060102_150405"

// UploadRequest contains everything needed for a single create-file call
type UploadRequest struct {
	ImageBytes []byte // Encoded image
	MimeType   string // MIME type of ImageBytes
	FileName   string // Target filename in Google Drive
	FolderID   string // Sanitized parent folder ID
}

// Validate checks that the request can be sent
func (r UploadRequest) Validate() error {
	if r.FolderID == "" {
		return ErrFolderIDRequired
	}
	if strings.ContainsAny(r.FolderID, "/?") {
		return fmt.Errorf("%w: %q", ErrInvalidFolderID, r.FolderID)
	}
	if len(r.ImageBytes) == 0 {
		return ErrEmptyImage
	}
	if r.FileName == "" {
		return fmt.Errorf("file name is required")
	}
	return nil
}

// SanitizeFolderID reduces a pasted Drive folder URL to its bare ID.
// Everything from the first "?" is dropped, then everything up to the last "/".
func SanitizeFolderID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrFolderIDRequired
	}

	if i := strings.Index(id, "?"); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}

	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolderID, raw)
	}
	return id, nil
}

// BuildFileName derives the uploaded filename: prefix[_YYYYMMDD_HHMMSS].ext
func BuildFileName(prefix string, format ImageFormat, at time.Time, addTimestamp bool) string {
	var b strings.Builder
	b.WriteString(prefix)
	if addTimestamp {
		b.WriteString("_")
		b.WriteString(at.Format(TimestampLayout))
	}
	b.WriteString(".")
	b.WriteString(format.Extension())
	return b.String()
}
