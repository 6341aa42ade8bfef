package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"drive-image-upload/domain/upload"

	"github.com/rs/zerolog"
)

// Status messages returned to the host
const (
	StatusFolderRequired = "Error: folder_id is required"
	statusErrorPrefix    = "Error uploading to Google Drive: "
)

// Params are the inputs of one upload call
type Params struct {
	Image           upload.PixelBuffer
	FolderID        string
	FilenamePrefix  string
	Format          string
	Quality         int
	AddTimestamp    bool
	CredentialsJSON string
}

// Service uploads images to Google Drive
type Service struct {
	encoder   upload.Encoder
	connector upload.Connector
	now       func() time.Time
	log       zerolog.Logger
}

// ServiceOption is a functional option for configuring Service
type ServiceOption func(*Service)

// WithClock sets the time source used for filename timestamps
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a new upload service
func NewService(encoder upload.Encoder, connector upload.Connector, opts ...ServiceOption) *Service {
	s := &Service{
		encoder:   encoder,
		connector: connector,
		now:       time.Now,
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Upload encodes the image and uploads it. It never returns an error: every
// failure is reported through the result's Status, with an empty FileURL.
func (s *Service) Upload(ctx context.Context, p Params) (result upload.UploadResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("upload aborted")
			result = upload.Failure(upload.KindRemote, statusErrorPrefix+fmt.Sprint(r))
		}
	}()

	if strings.TrimSpace(p.FolderID) == "" {
		return upload.Failure(upload.KindValidation, StatusFolderRequired)
	}

	folderID, err := upload.SanitizeFolderID(p.FolderID)
	if err != nil {
		return s.fail(upload.KindValidation, err)
	}

	format, err := upload.ParseFormat(p.Format)
	if err != nil {
		return s.fail(upload.KindValidation, err)
	}

	encoded, err := s.encoder.Encode(p.Image, format, p.Quality)
	if err != nil {
		return s.fail(upload.KindValidation, err)
	}
	s.log.Debug().
		Str("format", string(format)).
		Int("bytes", len(encoded.Bytes)).
		Msg("encoded image")

	uploader, err := s.connector.Connect(ctx, p.CredentialsJSON)
	if err != nil {
		return s.fail(upload.KindCredentials, err)
	}

	req := upload.UploadRequest{
		ImageBytes: encoded.Bytes,
		MimeType:   encoded.MimeType,
		FileName:   upload.BuildFileName(p.FilenamePrefix, format, s.now(), p.AddTimestamp),
		FolderID:   folderID,
	}

	file, err := uploader.CreateFile(ctx, req)
	if err != nil {
		return s.fail(upload.KindRemote, err)
	}

	s.log.Info().
		Str("file_id", file.ID).
		Str("name", file.Name).
		Str("folder_id", folderID).
		Msg("uploaded image")

	return upload.UploadResult{
		Status:   fmt.Sprintf("Success: Uploaded '%s' to Google Drive", file.Name),
		FileURL:  file.URL(),
		FileID:   file.ID,
		FileName: file.Name,
		Kind:     upload.KindNone,
	}
}

// fail converts err into a failure result
func (s *Service) fail(kind upload.ErrorKind, err error) upload.UploadResult {
	s.log.Warn().Err(err).Stringer("kind", kind).Msg("upload failed")

	if errors.Is(err, upload.ErrUnsupportedFormat) {
		return upload.Failure(kind, "Error: "+err.Error())
	}
	return upload.Failure(kind, statusErrorPrefix+err.Error())
}
