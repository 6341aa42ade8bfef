package upload

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// manualStrip is what a user would do by hand: drop everything after the
// first "?" and everything before the last "/".
func manualStrip(s string) string {
	s = strings.TrimSpace(s)
	s = strings.SplitN(s, "?", 2)[0]
	parts := strings.Split(s, "/")
	return parts[len(parts)-1]
}

func TestSanitizeFolderID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare id", "ABC123", "ABC123"},
		{"surrounding whitespace", "  ABC123\n", "ABC123"},
		{"full folder url", "https://drive.google.com/drive/folders/ABC123", "ABC123"},
		{"url with query", "https://drive.google.com/drive/folders/ABC123?usp=sharing", "ABC123"},
		{"url with user path", "https://drive.google.com/drive/u/0/folders/1dPV078FlLsWUFGjjoq3-epJiY_tBGXC8", "1dPV078FlLsWUFGjjoq3-epJiY_tBGXC8"},
		{"id with query only", "ABC123?resourcekey=xyz", "ABC123"},
		{"query containing slash", "folders/ABC123?next=/a/b", "ABC123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFolderID(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizeFolderID(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if manual := manualStrip(tt.input); got != manual {
				t.Errorf("SanitizeFolderID(%q) = %q, manual stripping gives %q", tt.input, got, manual)
			}
		})
	}
}

func TestSanitizeFolderID_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrFolderIDRequired},
		{"whitespace", "  \t", ErrFolderIDRequired},
		{"trailing slash", "https://drive.google.com/drive/folders/", ErrInvalidFolderID},
		{"query only", "?usp=sharing", ErrInvalidFolderID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeFolderID(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBuildFileName(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		prefix    string
		format    ImageFormat
		timestamp bool
		want      string
	}{
		{"png without timestamp", "render", FormatPNG, false, "render.png"},
		{"png with timestamp", "render", FormatPNG, true, "render_20260102_030405.png"},
		{"jpeg uses jpg", "out", FormatJPEG, false, "out.jpg"},
		{"webp with timestamp", "out", FormatWEBP, true, "out_20260102_030405.webp"},
		{"empty prefix", "", FormatPNG, false, ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildFileName(tt.prefix, tt.format, at, tt.timestamp); got != tt.want {
				t.Errorf("BuildFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUploadRequest_Validate(t *testing.T) {
	valid := UploadRequest{ImageBytes: []byte{1}, MimeType: MimeTypePNG, FileName: "a.png", FolderID: "ABC"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*UploadRequest)
		errMsg string
	}{
		{"empty folder", func(r *UploadRequest) { r.FolderID = "" }, "folder_id is required"},
		{"folder with slash", func(r *UploadRequest) { r.FolderID = "a/b" }, "does not contain a folder identifier"},
		{"folder with query", func(r *UploadRequest) { r.FolderID = "a?b" }, "does not contain a folder identifier"},
		{"no bytes", func(r *UploadRequest) { r.ImageBytes = nil }, "image data is empty"},
		{"no name", func(r *UploadRequest) { r.FileName = "" }, "file name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestUploadedFile_URL(t *testing.T) {
	withLink := UploadedFile{ID: "x", WebViewLink: "https://example.com/view"}
	if withLink.URL() != "https://example.com/view" {
		t.Errorf("expected server link, got %q", withLink.URL())
	}

	noLink := UploadedFile{ID: "x"}
	if noLink.URL() != "https://drive.google.com/file/d/x/view" {
		t.Errorf("expected constructed link, got %q", noLink.URL())
	}
}
