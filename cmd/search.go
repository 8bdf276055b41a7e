package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pltanton/wizsearch/internal/search"
	"github.com/pltanton/wizsearch/internal/tools"
)

var (
	searchEngines  []string
	searchLimit    int
	searchTimeout  time.Duration
	searchFailFast bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web across every enabled engine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, orchestrator, err := loadStack()
		if err != nil {
			return err
		}

		opts := search.Options{
			EnabledEngines:      searchEngines,
			MaxResultsPerEngine: searchLimit,
			Timeout:             searchTimeout,
			FailFast:            searchFailFast || cfg.Search.FailFast,
		}
		if len(opts.EnabledEngines) == 0 {
			opts.EnabledEngines = cfg.Search.EnabledEngines
		}
		if opts.MaxResultsPerEngine == 0 {
			opts.MaxResultsPerEngine = cfg.Search.MaxResultsPerEngine
		}
		if opts.Timeout == 0 {
			opts.Timeout = cfg.Search.SearchTimeout()
		}

		result, err := orchestrator.Search(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		fmt.Print(tools.FormatMergedResult(result))
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchEngines, "engines", nil,
		"Engines to query, in merge order (default: all available)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0,
		"Maximum results per engine (1-50)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0,
		"Shared deadline for the whole fan-out (1s-60s)")
	searchCmd.Flags().BoolVar(&searchFailFast, "fail-fast", false,
		"Abort on the first engine failure instead of dropping it")
	rootCmd.AddCommand(searchCmd)
}
