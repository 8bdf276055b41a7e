package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pltanton/wizsearch/internal/semantic"
	"github.com/pltanton/wizsearch/internal/tools"
)

var serveSemantic bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server exposing the search tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, orchestrator, err := loadStack()
		if err != nil {
			return err
		}

		var coordinator *semantic.Coordinator
		if serveSemantic {
			coordinator, err = buildCoordinator(cfg, log, orchestrator)
			if err != nil {
				return err
			}
			if err := coordinator.Connect(cmd.Context()); err != nil {
				return err
			}
			defer coordinator.Close()
		}

		s := server.NewMCPServer("wizsearch", build)
		toolset := tools.NewToolset(orchestrator, coordinator, newFetcher(cfg))
		toolset.Register(s)

		log.Info("serving MCP over stdio",
			zap.Strings("engines", orchestrator.EnabledEngines()),
			zap.Bool("semantic", serveSemantic))

		return server.ServeStdio(s)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSemantic, "semantic", false,
		"Also expose the semantic_search tool (requires an embedding API key)")
	rootCmd.AddCommand(serveCmd)
}
