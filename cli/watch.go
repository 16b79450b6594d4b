package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index consistent with live filesystem changes",
	Long: `Perform an initial scan, then watch the project for create, write, and
delete events. Bursty writes to the same file are coalesced: an event is
dispatched once the file has been quiet for the stability window. Press
Ctrl-C to stop; in-flight updates complete before the index is flushed.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sess, err := openSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	summary, err := sess.Indexer.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}
	fmt.Printf("initial scan: indexed %d, unchanged %d, errors %d in %s\n",
		summary.Indexed, summary.Unchanged, summary.Errors,
		summary.Duration.Round(time.Millisecond))

	w := watcher.New(watcher.Options{
		Root:     sess.Root,
		Indexer:  sess.Indexer,
		Debounce: sess.Config.Debounce,
		Logger:   sess.Logger,
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	w.Stop()

	counters := w.Counters()
	fmt.Printf("watch session: added %d, changed %d, removed %d, errors %d\n",
		counters.FilesAdded, counters.FilesChanged, counters.FilesRemoved, counters.Errors)
	return nil
}
