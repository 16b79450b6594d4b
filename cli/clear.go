package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Destroy the index and start empty",
	Long:  `Remove every record from the project's index and persist the empty store. The next scan re-indexes everything from scratch.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	sess, err := openSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	before := sess.Store.FileCount()
	if err := sess.Indexer.Clear(); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	fmt.Printf("cleared %d records\n", before)
	return nil
}
