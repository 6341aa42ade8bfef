package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"drive-image-upload/infrastructure/config"
	"drive-image-upload/infrastructure/credentials"
	"drive-image-upload/infrastructure/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	cfgErr  error
	logger  = zerolog.Nop()
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

var rootCmd = &cobra.Command{
	Use:   "drive-image-upload",
	Short: "Upload generated images to Google Drive",
	Long: `drive-image-upload encodes generated images and uploads them to a
Google Drive folder:

  - Encode as PNG, JPEG or WEBP
  - Resolve OAuth or service account credentials per upload
  - Accept a folder ID or a pasted folder URL

Example:
  drive-image-upload upload --image render.png --folder https://drive.google.com/drive/folders/ABC123`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	cfg, cfgErr = config.Load(cfgFile)
	if errors.Is(cfgErr, fs.ErrNotExist) {
		// A missing file is fine; flags and environment fill the gaps
		cfg, cfgErr = config.Default(), nil
	}

	level := "info"
	if cfg != nil {
		level = cfg.Logging.Level
	}
	if verbose {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level)

	if cfgErr != nil {
		return
	}
	if err := credentials.LoadDotEnv(cfg.Google.EnvFile); err != nil {
		logger.Warn().Err(err).Msg("ignoring env file")
	}
}

// GetConfig returns the loaded configuration, or the error that prevented loading it
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
