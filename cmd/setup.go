package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	domaincreds "drive-image-upload/domain/credentials"
	"drive-image-upload/domain/upload"
	"drive-image-upload/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing a credential strategy, the target
Google Drive folder and the default filename, format and quality.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to drive-image-upload setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := promptUpload(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	if cfg.Google.Strategy == string(domaincreds.StrategyOAuth) {
		fmt.Fprintln(out, "Run 'drive-image-upload auth' to obtain a refresh token.")
	}
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	strategy, err := prompter.Input("Credential strategy (oauth or service_account)?", cfg.Google.Strategy)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	parsed, err := domaincreds.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	cfg.Google.Strategy = string(parsed)

	folder, err := prompter.Input("Google Drive folder ID or folder URL?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	folderID, err := upload.SanitizeFolderID(folder)
	if err != nil {
		return err
	}
	cfg.Google.FolderID = folderID

	envFile, err := prompter.Input("Path to .env file with credentials?", cfg.Google.EnvFile)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Google.EnvFile = envFile

	return nil
}

func promptUpload(prompter Prompter, cfg *config.Config) error {
	prefix, err := prompter.Input("Filename prefix?", cfg.Upload.FilenamePrefix)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if prefix == "" {
		return fmt.Errorf("filename prefix is required")
	}
	cfg.Upload.FilenamePrefix = prefix

	format, err := prompter.Input("Image format (PNG, JPEG or WEBP)?", cfg.Upload.Format)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	parsed, err := upload.ParseFormat(format)
	if err != nil {
		return err
	}
	cfg.Upload.Format = string(parsed)

	if parsed.Lossy() {
		quality, err := prompter.Input("Quality (1-100)?", strconv.Itoa(cfg.Upload.Quality))
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		q, err := strconv.Atoi(strings.TrimSpace(quality))
		if err != nil {
			return fmt.Errorf("quality must be a number: %q", quality)
		}
		cfg.Upload.Quality = q
	}

	timestamp, err := prompter.Confirm("Append a timestamp to filenames?", cfg.Upload.AddTimestamp)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Upload.AddTimestamp = timestamp

	return nil
}
