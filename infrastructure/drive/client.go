package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"drive-image-upload/domain/upload"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Fields requested from the Drive API
const (
	createFields = "id, name, webViewLink"
	listFields   = "id, name, mimeType, size, createdTime, webViewLink"
	listPageSize = 1000
)

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	CreateFile(ctx context.Context, file *drive.File, media io.Reader, mimeType string, fields string) (*drive.File, error)
	ListFiles(ctx context.Context, query string, fields string, orderBy string, pageToken string) ([]*drive.File, string, error)
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// CreateFile uploads media as a new file. Payloads larger than one chunk
// are sent with the resumable protocol by the client library.
func (s *GoogleDriveService) CreateFile(ctx context.Context, file *drive.File, media io.Reader, mimeType string, fields string) (*drive.File, error) {
	return s.service.Files.Create(file).
		Media(media, googleapi.ContentType(mimeType)).
		Fields(googleapi.Field(fields)).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
}

// ListFiles returns one page of files matching the query and the token of the next page
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string, pageToken string) ([]*drive.File, string, error) {
	call := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("nextPageToken, files(" + fields + ")")).
		OrderBy(orderBy).
		PageSize(listPageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	r, err := call.Do()
	if err != nil {
		return nil, "", err
	}
	return r.Files, r.NextPageToken, nil
}

// Client implements upload.DriveUploader using Google Drive API
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// NewClient creates a new Google Drive client
// If no options are provided, it initializes a real Google Drive service authorized by ts
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		if ts == nil {
			return nil, fmt.Errorf("unable to create drive service: no token source")
		}
		srv, err := drive.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("unable to create drive service: %w", err)
		}
		c.driveService = &GoogleDriveService{service: srv}
	}

	return c, nil
}

// CreateFile implements upload.DriveUploader
func (c *Client) CreateFile(ctx context.Context, req upload.UploadRequest) (*upload.UploadedFile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	metadata := &drive.File{
		Name:    req.FileName,
		Parents: []string{req.FolderID},
	}

	f, err := c.driveService.CreateFile(ctx, metadata, bytes.NewReader(req.ImageBytes), req.MimeType, createFields)
	if err != nil {
		return nil, err
	}
	if f == nil || f.Id == "" {
		return nil, fmt.Errorf("drive returned no file ID for %s", req.FileName)
	}

	name := f.Name
	if name == "" {
		name = req.FileName
	}

	return &upload.UploadedFile{
		ID:          f.Id,
		Name:        name,
		WebViewLink: f.WebViewLink,
	}, nil
}

// ListFiles implements upload.DriveUploader, following every result page
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]upload.FileInfo, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", queryEscaper.Replace(folderID))

	var result []upload.FileInfo
	pageToken := ""
	for {
		files, next, err := c.driveService.ListFiles(ctx, query, listFields, "name", pageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range files {
			result = append(result, upload.FileInfo{
				ID:          f.Id,
				Name:        f.Name,
				MimeType:    f.MimeType,
				Size:        f.Size,
				CreatedTime: parseTime(f.CreatedTime),
				WebViewLink: f.WebViewLink,
			})
		}

		if next == "" || next == pageToken {
			return result, nil
		}
		pageToken = next
	}
}

// parseTime parses a Google Drive timestamp string
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Client implements upload.DriveUploader
var _ upload.DriveUploader = (*Client)(nil)
