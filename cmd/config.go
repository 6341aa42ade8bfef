package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	domaincreds "drive-image-upload/domain/credentials"
	"drive-image-upload/infrastructure/config"
	"drive-image-upload/infrastructure/credentials"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Show or validate the configuration file.

Examples:
  drive-image-upload config show
  drive-image-upload config validate --config other.yaml`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, credentials.OSEnv{}, DefaultOutput)
	},
}

// RunConfigShowWithDependencies prints the configuration and which credential variables are set
func RunConfigShowWithDependencies(cfg *config.Config, env credentials.Env, out OutputWriter) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "google.strategy\t%s\n", cfg.Google.Strategy)
	fmt.Fprintf(w, "google.scope\t%s\n", orDefault(cfg.Google.Scope))
	fmt.Fprintf(w, "google.folder_id\t%s\n", cfg.Google.FolderID)
	fmt.Fprintf(w, "google.env_file\t%s\n", cfg.Google.EnvFile)
	fmt.Fprintf(w, "google.oauth_client_file\t%s\n", cfg.Google.OAuthClientFile)
	fmt.Fprintf(w, "upload.filename_prefix\t%s\n", cfg.Upload.FilenamePrefix)
	fmt.Fprintf(w, "upload.format\t%s\n", cfg.Upload.Format)
	fmt.Fprintf(w, "upload.quality\t%d\n", cfg.Upload.Quality)
	fmt.Fprintf(w, "upload.add_timestamp\t%t\n", cfg.Upload.AddTimestamp)
	fmt.Fprintf(w, "logging.level\t%s\n", cfg.Logging.Level)
	if err := w.Flush(); err != nil {
		return err
	}

	// Values are never printed, only whether they are present
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENVIRONMENT\tSET")
	for _, name := range []string{
		domaincreds.EnvClientID,
		domaincreds.EnvClientSecret,
		domaincreds.EnvRefreshToken,
		domaincreds.EnvServiceAccountBase64,
		domaincreds.EnvServiceAccountJSON,
		domaincreds.EnvApplicationCredentials,
	} {
		fmt.Fprintf(w, "%s\t%t\n", name, env.Get(name) != "")
	}
	return w.Flush()
}

func orDefault(s string) string {
	if s == "" {
		return "(strategy default)"
	}
	return s
}

// --- VALIDATE command ---

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for errors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath
		}
		return RunConfigValidateWithDependencies(path, DefaultOutput)
	},
}

// RunConfigValidateWithDependencies loads the file at path and reports whether it is valid
func RunConfigValidateWithDependencies(path string, out OutputWriter) error {
	if _, err := config.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is valid\n", path)
	return nil
}
