package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"drive-image-upload/domain/upload"

	"github.com/spf13/cobra"
)

var (
	listFolder      string
	listCredentials string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files in a Google Drive folder",
	Long: `List the files in the upload folder, sorted by name.

Uses the same credential resolution as upload, so it is a quick way to check
that credentials and folder access work before generating images.

Example:
  drive-image-upload list
  drive-image-upload list --folder https://drive.google.com/drive/folders/ABC123`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listFolder, "folder", "", "Drive folder ID or folder URL (defaults to google.folder_id)")
	listCmd.Flags().StringVar(&listCredentials, "credentials", "", "Credentials JSON (OAuth fields or a service account key)")
	addCredentialFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	folder := cfg.Google.FolderID
	if listFolder != "" {
		folder = listFolder
	}

	connector, err := newConnector(cfg, credentialStrategy, credentialScope)
	if err != nil {
		return err
	}

	return RunListWithDependencies(cmd.Context(), connector, folder, listCredentials, os.Stdout)
}

// RunListWithDependencies runs the list command with injected dependencies (for testing)
func RunListWithDependencies(ctx context.Context, connector upload.Connector, folder, credentialsJSON string, out OutputWriter) error {
	folderID, err := upload.SanitizeFolderID(folder)
	if err != nil {
		return err
	}

	client, err := connector.Connect(ctx, credentialsJSON)
	if err != nil {
		return err
	}

	files, err := client.ListFiles(ctx, folderID)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No files in folder %s\n", folderID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tCREATED\tID")
	for _, f := range files {
		created := ""
		if !f.CreatedTime.IsZero() {
			created = f.CreatedTime.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.MimeType, formatSize(f.Size), created, f.ID)
	}
	return w.Flush()
}

func formatSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/1024/1024)
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
