package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage project documents",
	Long:  `Add PDF documents to a project, import a folder of PDFs, list and fetch stored documents.`,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [project-id] [file.pdf]",
	Short: "Add a PDF to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentAdd,
}

var documentImportCmd = &cobra.Command{
	Use:   "import [project-id] [folder]",
	Short: "Import every PDF in a folder",
	Long: `Import every PDF found directly inside a folder. Other files are skipped.

With --watch the command keeps running after the import and adds PDFs as
they are created or rewritten in the folder, until interrupted.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentImport,
}

var documentListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List documents of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Write a stored document to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

// Flags for document commands.
var (
	importWatch    bool
	documentOutput string
)

func init() {
	documentImportCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "Keep importing new PDFs until interrupted")
	documentGetCmd.Flags().StringVarP(&documentOutput, "output", "o", "", "Output path (defaults to the stored name)")

	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.AddFile(commandContext(cmd), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added document: %s\n", doc.ID)
	cmd.Printf("  Name: %s (%s)\n", doc.Name, formatSize(doc.Size))
	return nil
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	projectID, dir := args[0], args[1]
	ctx := commandContext(cmd)

	result, err := documentService.ImportFolder(ctx, projectID, dir)
	if err != nil {
		return fmt.Errorf("failed to import folder: %w", err)
	}

	for i := range result.Imported {
		cmd.Printf("  + %s (%s)\n", result.Imported[i].Name, formatSize(result.Imported[i].Size))
	}
	for _, name := range result.Skipped {
		cmd.Printf("  - skipped %s (not a PDF)\n", name)
	}
	for _, e := range result.Errors {
		cmd.Printf("  ! %v\n", e)
	}
	cmd.Printf("Imported %d documents, skipped %d, failed %d\n",
		len(result.Imported), len(result.Skipped), len(result.Errors))

	if !importWatch {
		return nil
	}

	watcher := newFolderWatcher()
	defer watcher.Close()

	cmd.Printf("Watching %s for new PDFs (Ctrl+C to stop)...\n", dir)
	err = documentService.WatchFolder(ctx, watcher, projectID, dir, func(doc *domain.Document) {
		cmd.Printf("  + %s (%s)\n", doc.Name, formatSize(doc.Size))
	})
	if err != nil {
		return fmt.Errorf("failed to watch folder: %w", err)
	}
	cmd.Println("Stopped watching.")
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	projectID := args[0]
	docs, err := documentService.List(commandContext(cmd), projectID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for project: %s\n", projectID)
		return nil
	}

	cmd.Printf("Documents for project %s:\n\n", projectID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:  %s\n", docs[i].Name)
		cmd.Printf("    Size:  %s\n", formatSize(docs[i].Size))
		cmd.Printf("    Added: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	return writeStoredFile(cmd, args[0], domain.FileKindDocument, documentOutput)
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

// writeStoredFile fetches a document or report and writes it to output, or
// to its stored name in the working directory.
func writeStoredFile(cmd *cobra.Command, id string, kind domain.FileKind, output string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	file, err := documentService.GetFile(commandContext(cmd), id, kind)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}

	path := output
	if path == "" {
		path = filepath.Base(file.Name)
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Wrote %s (%s)\n", path, formatSize(int64(len(file.Data))))
	return nil
}

func formatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
