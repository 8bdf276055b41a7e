package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pltanton/wizsearch/internal/config"
	"github.com/pltanton/wizsearch/internal/embedding"
	"github.com/pltanton/wizsearch/internal/semantic"
	"github.com/pltanton/wizsearch/internal/tools"
	"github.com/pltanton/wizsearch/internal/vectorstore"
)

var (
	semanticLimit    int
	semanticForceWeb bool
	storeURL         string
	storeTitle       string
)

var semanticCmd = &cobra.Command{
	Use:   "semantic",
	Short: "Semantic search over the local knowledge base",
}

var semanticSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the local index, falling back to live web search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coordinator, err := connectCoordinator(cmd)
		if err != nil {
			return err
		}
		defer coordinator.Close()

		result, err := coordinator.Search(cmd.Context(), args[0], semantic.SearchOptions{
			Limit:    semanticLimit,
			ForceWeb: semanticForceWeb,
		})
		if err != nil {
			return err
		}

		fmt.Print(tools.FormatSemanticResult(args[0], result))
		return nil
	},
}

var semanticStoreCmd = &cobra.Command{
	Use:   "store <file>",
	Short: "Embed a document and add it to the local index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		coordinator, err := connectCoordinator(cmd)
		if err != nil {
			return err
		}
		defer coordinator.Close()

		chunk, err := coordinator.StoreDocument(cmd.Context(), string(content), storeURL, storeTitle, nil)
		if err != nil {
			return err
		}

		fmt.Printf("stored chunk %s (%d bytes)\n", chunk.ID, len(chunk.Content))
		return nil
	},
}

var semanticStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		coordinator, err := connectCoordinator(cmd)
		if err != nil {
			return err
		}
		defer coordinator.Close()

		stats, err := coordinator.Stats(cmd.Context())
		if err != nil {
			return err
		}
		for k, v := range stats {
			fmt.Printf("%s: %v\n", k, v)
		}
		return nil
	},
}

func connectCoordinator(cmd *cobra.Command) (*semantic.Coordinator, error) {
	cfg, log, orchestrator, err := loadStack()
	if err != nil {
		return nil, err
	}

	coordinator, err := buildCoordinator(cfg, log, orchestrator)
	if err != nil {
		return nil, err
	}
	if err := coordinator.Connect(cmd.Context()); err != nil {
		return nil, err
	}
	return coordinator, nil
}

func buildCoordinator(cfg *config.Config, log *zap.Logger, web semantic.WebSearcher) (*semantic.Coordinator, error) {
	store, err := vectorstore.NewChromemStore(dataDir(cfg), cfg.Semantic.CollectionName)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.New(embedding.Config{
		Provider: cfg.Semantic.EmbeddingProvider,
		APIKey:   cfg.Semantic.EmbeddingAPIKey,
		BaseURL:  cfg.Semantic.EmbeddingBaseURL,
		Model:    cfg.Semantic.EmbeddingModel,
	})
	if err != nil {
		return nil, err
	}

	semCfg := semantic.DefaultConfig()
	semCfg.LocalSearchLimit = cfg.Semantic.LocalSearchLimit
	semCfg.WebSearchLimit = cfg.Semantic.WebSearchLimit
	semCfg.FallbackThreshold = cfg.Semantic.FallbackThreshold
	semCfg.CacheTTL = cfg.Semantic.CacheTTL()
	if cfg.Semantic.WebResultScore != nil {
		semCfg.WebResultScore = cfg.Semantic.WebResultScore
	}
	if cfg.Semantic.EnableCaching != nil {
		semCfg.EnableCaching = *cfg.Semantic.EnableCaching
	}
	if cfg.Semantic.AutoStoreWebResults != nil {
		semCfg.AutoStoreWebResults = *cfg.Semantic.AutoStoreWebResults
	}

	return semantic.NewCoordinator(store, embedder, semCfg,
		semantic.WithLogger(log),
		semantic.WithWebSearcher(web))
}

func init() {
	semanticSearchCmd.Flags().IntVar(&semanticLimit, "limit", 0,
		"Maximum chunks to return")
	semanticSearchCmd.Flags().BoolVar(&semanticForceWeb, "force-web", false,
		"Always perform a live web search and rank its hits first")
	semanticStoreCmd.Flags().StringVar(&storeURL, "url", "",
		"Source URL to record on the stored chunk")
	semanticStoreCmd.Flags().StringVar(&storeTitle, "title", "",
		"Source title to record on the stored chunk")

	semanticCmd.AddCommand(semanticSearchCmd, semanticStoreCmd, semanticStatsCmd)
	rootCmd.AddCommand(semanticCmd)
}
