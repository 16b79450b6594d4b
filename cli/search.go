package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/query"
	"github.com/lexandro/lexindex-mcp/tools"
)

var (
	searchMaxResults int
	searchMinScore   float64
	searchContext    int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a relevance-ranked search against the index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "Maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "Minimum score in [0,1] (default from config)")
	searchCmd.Flags().IntVar(&searchContext, "context", -1, "Context lines per snippet (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	sess, err := openSession(false)
	if err != nil {
		return err
	}

	if sess.Store.FileCount() == 0 {
		return fmt.Errorf("index is empty; run 'lexindex index' first")
	}

	opts := query.Options{
		MaxResults:   sess.Config.Search.MaxResults,
		MinScore:     sess.Config.Search.MinScore,
		ContextLines: sess.Config.Search.ContextLines,
	}
	if searchMaxResults > 0 {
		opts.MaxResults = searchMaxResults
	}
	if searchMinScore > 0 {
		opts.MinScore = searchMinScore
	}
	if searchContext >= 0 {
		opts.ContextLines = searchContext
	}

	results := query.Search(sess.Store, strings.Join(args, " "), opts)
	fmt.Print(tools.FormatSearchResults(results))
	return nil
}
