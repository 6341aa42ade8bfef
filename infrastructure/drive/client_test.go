package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"drive-image-upload/domain/upload"

	"google.golang.org/api/drive/v3"
)

// mockDriveService is a mock implementation for testing
type mockDriveService struct {
	files      []*drive.File
	shouldFail bool
	failError  error

	// omit fields from the create response
	omitLink bool
	omitID   bool

	created      []*drive.File
	createdBody  [][]byte
	createdMime  []string
	createFields []string
	lastQuery    string

	// pages keyed by page token; "" is the first page
	pages      map[string]listPage
	pageTokens []string
}

type listPage struct {
	files []*drive.File
	next  string
}

func (m *mockDriveService) CreateFile(ctx context.Context, file *drive.File, media io.Reader, mimeType string, fields string) (*drive.File, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	body, err := io.ReadAll(media)
	if err != nil {
		return nil, err
	}

	m.created = append(m.created, file)
	m.createdBody = append(m.createdBody, body)
	m.createdMime = append(m.createdMime, mimeType)
	m.createFields = append(m.createFields, fields)

	resp := &drive.File{
		Id:          "uploaded-file-id",
		Name:        file.Name,
		WebViewLink: "https://drive.google.com/file/d/uploaded-file-id/view?usp=drivesdk",
	}
	if m.omitLink {
		resp.WebViewLink = ""
	}
	if m.omitID {
		resp.Id = ""
	}
	return resp, nil
}

func (m *mockDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string, pageToken string) ([]*drive.File, string, error) {
	m.lastQuery = query
	m.pageTokens = append(m.pageTokens, pageToken)
	if m.shouldFail {
		return nil, "", m.failError
	}
	if m.pages != nil {
		p := m.pages[pageToken]
		return p.files, p.next, nil
	}
	return m.files, "", nil
}

func validRequest() upload.UploadRequest {
	return upload.UploadRequest{
		ImageBytes: []byte("png-bytes"),
		MimeType:   upload.MimeTypePNG,
		FileName:   "render.png",
		FolderID:   "ABC123",
	}
}

func TestNewClient_RequiresTokenSourceWithoutMock(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error when neither token source nor drive service is given")
	}
}

func TestClient_CreateFile(t *testing.T) {
	mock := &mockDriveService{}
	client, err := NewClient(context.Background(), nil, WithDriveService(mock))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	file, err := client.CreateFile(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(mock.created))
	}
	meta := mock.created[0]
	if meta.Name != "render.png" {
		t.Errorf("expected name 'render.png', got %q", meta.Name)
	}
	if len(meta.Parents) != 1 || meta.Parents[0] != "ABC123" {
		t.Errorf("expected parents [ABC123], got %v", meta.Parents)
	}
	if mock.createdMime[0] != "image/png" {
		t.Errorf("expected mime 'image/png', got %q", mock.createdMime[0])
	}
	if string(mock.createdBody[0]) != "png-bytes" {
		t.Errorf("unexpected body %q", mock.createdBody[0])
	}
	if mock.createFields[0] != "id, name, webViewLink" {
		t.Errorf("unexpected fields %q", mock.createFields[0])
	}

	if file.ID != "uploaded-file-id" {
		t.Errorf("expected ID 'uploaded-file-id', got %q", file.ID)
	}
	if file.URL() != "https://drive.google.com/file/d/uploaded-file-id/view?usp=drivesdk" {
		t.Errorf("expected server link, got %q", file.URL())
	}
}

func TestClient_CreateFile_FallbackURL(t *testing.T) {
	mock := &mockDriveService{omitLink: true}
	client, _ := NewClient(context.Background(), nil, WithDriveService(mock))

	file, err := client.CreateFile(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "https://drive.google.com/file/d/uploaded-file-id/view"
	if file.URL() != want {
		t.Errorf("expected %q, got %q", want, file.URL())
	}
}

func TestClient_CreateFile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mock   *mockDriveService
		mutate func(*upload.UploadRequest)
		errMsg string
		calls  int
	}{
		{
			name:   "rejects empty folder",
			mock:   &mockDriveService{},
			mutate: func(r *upload.UploadRequest) { r.FolderID = "" },
			errMsg: "folder_id is required",
		},
		{
			name:   "rejects unsanitized folder",
			mock:   &mockDriveService{},
			mutate: func(r *upload.UploadRequest) { r.FolderID = "folders/ABC" },
			errMsg: "does not contain a folder identifier",
		},
		{
			name:   "rejects empty image",
			mock:   &mockDriveService{},
			mutate: func(r *upload.UploadRequest) { r.ImageBytes = nil },
			errMsg: "image data is empty",
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("googleapi: Error 403: insufficient permissions"),
			},
			mutate: func(r *upload.UploadRequest) {},
			errMsg: "Error 403",
		},
		{
			name:   "handles missing file ID",
			mock:   &mockDriveService{omitID: true},
			mutate: func(r *upload.UploadRequest) {},
			errMsg: "no file ID",
			calls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := NewClient(context.Background(), nil, WithDriveService(tt.mock))
			req := validRequest()
			tt.mutate(&req)

			_, err := client.CreateFile(context.Background(), req)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
			if len(tt.mock.created) != tt.calls {
				t.Errorf("expected %d create calls, got %d", tt.calls, len(tt.mock.created))
			}
		})
	}
}

func TestClient_CreateFile_EmptyFolderIsSentinel(t *testing.T) {
	client, _ := NewClient(context.Background(), nil, WithDriveService(&mockDriveService{}))
	req := validRequest()
	req.FolderID = ""

	_, err := client.CreateFile(context.Background(), req)
	if !errors.Is(err, upload.ErrFolderIDRequired) {
		t.Errorf("expected ErrFolderIDRequired, got %v", err)
	}
}

func TestClient_ListFiles(t *testing.T) {
	testTime := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mock      *mockDriveService
		folderID  string
		wantCount int
		wantErr   bool
		errMsg    string
	}{
		{
			name: "lists files successfully",
			mock: &mockDriveService{
				files: []*drive.File{
					{
						Id:          "file-1",
						Name:        "render_20261016_100000.png",
						MimeType:    "image/png",
						Size:        2048,
						CreatedTime: testTime.Format(time.RFC3339),
						WebViewLink: "https://drive.google.com/file/d/file-1/view",
					},
					{
						Id:          "file-2",
						Name:        "render_20261015_100000.jpg",
						MimeType:    "image/jpeg",
						Size:        1024,
						CreatedTime: testTime.Add(-24 * time.Hour).Format(time.RFC3339),
					},
				},
			},
			folderID:  "test-folder-id",
			wantCount: 2,
		},
		{
			name:      "returns empty list for empty folder",
			mock:      &mockDriveService{files: []*drive.File{}},
			folderID:  "empty-folder-id",
			wantCount: 0,
		},
		{
			name: "handles API error",
			mock: &mockDriveService{
				shouldFail: true,
				failError:  fmt.Errorf("googleapi: Error 403: permission denied"),
			},
			folderID: "test-folder-id",
			wantErr:  true,
			errMsg:   "failed to list files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), nil, WithDriveService(tt.mock))
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			files, err := client.ListFiles(context.Background(), tt.folderID)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(files) != tt.wantCount {
				t.Errorf("expected %d files, got %d", tt.wantCount, len(files))
			}

			wantQuery := fmt.Sprintf("'%s' in parents and trashed = false", tt.folderID)
			if tt.mock.lastQuery != wantQuery {
				t.Errorf("expected query %q, got %q", wantQuery, tt.mock.lastQuery)
			}
		})
	}
}

func TestClient_ListFiles_FileInfo(t *testing.T) {
	testTime := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)

	mock := &mockDriveService{
		files: []*drive.File{
			{
				Id:          "file-123",
				Name:        "render.webp",
				MimeType:    "image/webp",
				Size:        4321,
				CreatedTime: testTime.Format(time.RFC3339),
				WebViewLink: "https://drive.google.com/file/d/file-123/view",
			},
		},
	}

	client, _ := NewClient(context.Background(), nil, WithDriveService(mock))
	files, err := client.ListFiles(context.Background(), "test-folder")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}

	file := files[0]
	if file.ID != "file-123" {
		t.Errorf("expected ID 'file-123', got %q", file.ID)
	}
	if file.Name != "render.webp" {
		t.Errorf("expected Name 'render.webp', got %q", file.Name)
	}
	if file.MimeType != "image/webp" {
		t.Errorf("expected MimeType 'image/webp', got %q", file.MimeType)
	}
	if file.Size != 4321 {
		t.Errorf("expected Size 4321, got %d", file.Size)
	}
	if !file.CreatedTime.Equal(testTime) {
		t.Errorf("expected CreatedTime %v, got %v", testTime, file.CreatedTime)
	}
	if file.WebViewLink == "" {
		t.Error("expected WebViewLink to be set")
	}
}

func TestClient_ListFiles_FollowsPages(t *testing.T) {
	mock := &mockDriveService{
		pages: map[string]listPage{
			"":   {files: []*drive.File{{Id: "a"}, {Id: "b"}}, next: "p2"},
			"p2": {files: []*drive.File{{Id: "c"}}, next: "p3"},
			"p3": {files: []*drive.File{{Id: "d"}}},
		},
	}

	client, _ := NewClient(context.Background(), nil, WithDriveService(mock))
	files, err := client.ListFiles(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []string
	for _, f := range files {
		ids = append(ids, f.ID)
	}
	if strings.Join(ids, ",") != "a,b,c,d" {
		t.Errorf("expected files from every page, got %v", ids)
	}
	if strings.Join(mock.pageTokens, ",") != ",p2,p3" {
		t.Errorf("unexpected page tokens %q", mock.pageTokens)
	}
}

func TestClient_ListFiles_ErrorOnLaterPage(t *testing.T) {
	mock := &failingPageService{mockDriveService: mockDriveService{
		pages: map[string]listPage{
			"": {files: []*drive.File{{Id: "a"}}, next: "p2"},
		},
	}}

	client, _ := NewClient(context.Background(), nil, WithDriveService(mock))
	_, err := client.ListFiles(context.Background(), "ABC123")
	if err == nil || !strings.Contains(err.Error(), "failed to list files") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

// failingPageService fails every request after the first page
type failingPageService struct {
	mockDriveService
}

func (f *failingPageService) ListFiles(ctx context.Context, query string, fields string, orderBy string, pageToken string) ([]*drive.File, string, error) {
	if pageToken != "" {
		return nil, "", errors.New("googleapi: Error 500: backend error")
	}
	return f.mockDriveService.ListFiles(ctx, query, fields, orderBy, pageToken)
}

func TestClient_ListFiles_EscapesFolderID(t *testing.T) {
	mock := &mockDriveService{}
	client, _ := NewClient(context.Background(), nil, WithDriveService(mock))

	if _, err := client.ListFiles(context.Background(), `it's\here`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `'it\'s\\here' in parents and trashed = false`
	if mock.lastQuery != want {
		t.Errorf("expected query %q, got %q", want, mock.lastQuery)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantZero bool
	}{
		{name: "valid RFC3339 time", input: "2026-10-16T10:00:00Z"},
		{name: "invalid time format", input: "invalid", wantZero: true},
		{name: "empty string", input: "", wantZero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTime(tt.input)
			if tt.wantZero && !result.IsZero() {
				t.Error("expected zero time, got non-zero")
			}
			if !tt.wantZero && result.IsZero() {
				t.Error("expected non-zero time, got zero")
			}
		})
	}
}
