package upload

import (
	"context"
	"fmt"
	"time"
)

// DriveUploader defines the Google Drive operations needed to upload images
// This is a port that can be implemented by different infrastructure adapters
type DriveUploader interface {
	// CreateFile uploads the encoded image into the request's folder
	CreateFile(ctx context.Context, req UploadRequest) (*UploadedFile, error)

	// ListFiles lists files in a folder
	ListFiles(ctx context.Context, folderID string) ([]FileInfo, error)
}

// Connector produces an authenticated DriveUploader.
// credentialsJSON is the optional inline credentials supplied with the call.
type Connector interface {
	Connect(ctx context.Context, credentialsJSON string) (DriveUploader, error)
}

// UploadedFile is what the Drive API reports back for a created file
type UploadedFile struct {
	ID          string
	Name        string
	WebViewLink string
}

// ViewURL returns the canonical view URL for a file ID
func ViewURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}

// URL prefers the server-provided link
func (f UploadedFile) URL() string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	return ViewURL(f.ID)
}

// FileInfo represents metadata about a file in Google Drive
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
	WebViewLink string
}
