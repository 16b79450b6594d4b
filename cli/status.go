package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/tools"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}

	stats := sess.Store.Stats()
	fmt.Printf("Project root: %s\n", sess.Root)
	fmt.Printf("Indexed files: %d\n", stats.FileCount)
	fmt.Printf("Total indexed size: %s\n", tools.FormatFileSize(stats.TotalSize))

	if len(stats.ByExtension) > 0 {
		fmt.Println("\nExtensions:")
		for _, entry := range stats.ByExtension {
			ext := entry.Extension
			if ext == "" {
				ext = "(none)"
			}
			fmt.Printf("  %-12s %d files\n", ext, entry.Count)
		}
	}
	return nil
}
