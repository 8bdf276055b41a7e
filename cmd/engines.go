package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pltanton/wizsearch/internal/search"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List registered engine types and the engines enabled right now",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, orchestrator, err := loadStack()
		if err != nil {
			return err
		}

		registry := search.NewRegistry()
		types := registry.ListTypes()
		sort.Strings(types)
		fmt.Println("Registered engine types:")
		for _, t := range types {
			fmt.Printf("  %s\n", t)
		}

		fmt.Println("\nEnabled engines (in merge order):")
		enabled := orchestrator.EnabledEngines()
		if len(enabled) == 0 {
			fmt.Println("  (none — configure engines or set API keys in the environment)")
		}
		for _, name := range enabled {
			fmt.Printf("  %s\n", name)
		}

		if configured := len(cfg.Search.Engines); configured > len(enabled) {
			fmt.Printf("\n%d configured engine(s) are unavailable (missing API key or base URL)\n",
				configured-len(enabled))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}
