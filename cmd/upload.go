package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	appupload "drive-image-upload/application/upload"
	domaincreds "drive-image-upload/domain/credentials"
	"drive-image-upload/domain/upload"
	"drive-image-upload/infrastructure/config"
	"drive-image-upload/infrastructure/credentials"
	"drive-image-upload/infrastructure/drive"
	"drive-image-upload/infrastructure/imaging"

	"github.com/spf13/cobra"
)

// ErrUploadFailed is returned after a failed upload's status has been printed
var ErrUploadFailed = errors.New("upload failed")

var (
	uploadImagePath       string
	uploadFolder          string
	uploadPrefix          string
	uploadFormat          string
	uploadQuality         int
	uploadTimestamp       bool
	uploadCredentials     string
	uploadCredentialsFile string
	credentialStrategy    string
	credentialScope       string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Encode an image and upload it to Google Drive",
	Long: `Encode an image and upload it to a Google Drive folder.

Defaults for the folder, filename prefix, format, quality and timestamp come
from the config file. Credentials are resolved on every upload, from the
--credentials JSON first and the environment second.

Example:
  drive-image-upload upload --image render.png
  drive-image-upload upload --image render.png --format JPEG --quality 85 --timestamp=false
  drive-image-upload upload --image render.png --strategy service_account --folder ABC123`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVarP(&uploadImagePath, "image", "i", "", "Path to the PNG or JPEG image to upload (required)")
	uploadCmd.Flags().StringVar(&uploadFolder, "folder", "", "Drive folder ID or folder URL")
	uploadCmd.Flags().StringVar(&uploadPrefix, "prefix", "", "Filename prefix")
	uploadCmd.Flags().StringVar(&uploadFormat, "format", "", "Output format: PNG, JPEG or WEBP")
	uploadCmd.Flags().IntVar(&uploadQuality, "quality", 0, "Quality for JPEG and WEBP (1-100)")
	uploadCmd.Flags().BoolVar(&uploadTimestamp, "timestamp", true, "Append _YYYYMMDD_HHMMSS to the filename")
	uploadCmd.Flags().StringVar(&uploadCredentials, "credentials", "", "Credentials JSON (OAuth fields or a service account key)")
	uploadCmd.Flags().StringVar(&uploadCredentialsFile, "credentials-file", "", "Read the credentials JSON from a file")
	addCredentialFlags(uploadCmd)
	uploadCmd.MarkFlagRequired("image")
}

// addCredentialFlags registers the flags shared by commands that talk to Drive
func addCredentialFlags(c *cobra.Command) {
	c.Flags().StringVar(&credentialStrategy, "strategy", "", "Credential strategy: oauth or service_account")
	c.Flags().StringVar(&credentialScope, "scope", "", "Drive scope: drive or drive.file")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	params := appupload.Params{
		FolderID:       cfg.Google.FolderID,
		FilenamePrefix: cfg.Upload.FilenamePrefix,
		Format:         cfg.Upload.Format,
		Quality:        cfg.Upload.Quality,
		AddTimestamp:   cfg.Upload.AddTimestamp,
	}

	flags := cmd.Flags()
	if flags.Changed("folder") {
		params.FolderID = uploadFolder
	}
	if flags.Changed("prefix") {
		params.FilenamePrefix = uploadPrefix
	}
	if flags.Changed("format") {
		params.Format = uploadFormat
	}
	if flags.Changed("quality") {
		params.Quality = uploadQuality
	}
	if flags.Changed("timestamp") {
		params.AddTimestamp = uploadTimestamp
	}

	params.CredentialsJSON, err = inlineCredentials(uploadCredentials, uploadCredentialsFile)
	if err != nil {
		return err
	}

	connector, err := newConnector(cfg, credentialStrategy, credentialScope)
	if err != nil {
		return err
	}

	service := appupload.NewService(imaging.NewEncoder(), connector, appupload.WithLogger(logger))

	return RunUploadWithDependencies(cmd.Context(), service, uploadImagePath, params, os.Stdout)
}

// ImageUploader is the part of the upload service used by the command
type ImageUploader interface {
	Upload(ctx context.Context, p appupload.Params) upload.UploadResult
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	uploader ImageUploader,
	imagePath string,
	params appupload.Params,
	output OutputWriter,
) error {
	buf, err := LoadImage(imagePath)
	if err != nil {
		return err
	}
	params.Image = buf

	fmt.Fprintf(output, "Uploading %s...\n", filepath.Base(imagePath))
	result := uploader.Upload(ctx, params)
	fmt.Fprintln(output, result.Status)

	if !result.Succeeded() {
		return ErrUploadFailed
	}

	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  URL: %s\n", result.FileURL)
	return nil
}

// LoadImage decodes a PNG or JPEG file into a normalized pixel buffer
func LoadImage(path string) (upload.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return upload.PixelBuffer{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return upload.PixelBuffer{}, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	return imaging.FromImage(img), nil
}

// inlineCredentials returns the --credentials value, or the contents of --credentials-file
func inlineCredentials(value, path string) (string, error) {
	if value != "" && path != "" {
		return "", fmt.Errorf("use either --credentials or --credentials-file, not both")
	}
	if path == "" {
		return value, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// newConnector builds a Drive connector from config, with flag overrides for strategy and scope
func newConnector(cfg *config.Config, strategyFlag, scopeFlag string) (*drive.Connector, error) {
	name := cfg.Google.Strategy
	if strategyFlag != "" {
		name = strategyFlag
	}
	strategy, err := domaincreds.ParseStrategy(name)
	if err != nil {
		return nil, err
	}

	scopeName := cfg.Google.Scope
	if scopeFlag != "" {
		scopeName = scopeFlag
	}
	scope, err := domaincreds.ParseScope(scopeName, strategy)
	if err != nil {
		return nil, err
	}

	resolver := credentials.NewResolver(strategy, credentials.WithScope(scope))
	return drive.NewConnector(resolver, logger), nil
}
