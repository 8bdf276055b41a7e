package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pltanton/wizsearch/internal/config"
	"github.com/pltanton/wizsearch/internal/crawler"
	"github.com/pltanton/wizsearch/internal/logger"
	"github.com/pltanton/wizsearch/internal/search"
	"github.com/pltanton/wizsearch/internal/security"
)

var (
	cfgPath  string
	logLevel string
	build    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wizsearch",
	Short: "Multi-engine web search with a semantic local-first layer",
	Long: `wizsearch queries multiple search engines concurrently and merges
their results into one de-duplicated list. The semantic commands answer
from a local vector index first and fall back to live web search when the
index holds too little.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// SetBuild records the build identifier set via ldflags.
func SetBuild(b string) {
	if b != "" {
		build = b
	}
}

// Execute runs the CLI.
func Execute() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to the config file (default ~/.wizsearch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level: debug, info, warn, error")
}

// loadStack loads the configuration and builds the shared collaborators.
func loadStack() (*config.Config, *zap.Logger, *search.Orchestrator, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logger.New(level, cfg.Logging.Format)

	orchestrator, err := search.NewOrchestrator(cfg.Search.Engines, search.NewRegistry(),
		search.WithLogger(log))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, orchestrator, nil
}

func newFetcher(cfg *config.Config) crawler.Fetcher {
	var opts []security.ValidatorOption
	if cfg.Crawler.AllowPrivate {
		opts = append(opts, security.AllowPrivate())
	}
	if len(cfg.Crawler.AllowedHosts) > 0 {
		opts = append(opts, security.AllowHosts(cfg.Crawler.AllowedHosts...))
	}
	validator := security.NewURLValidator(opts...)

	if cfg.Crawler.UseBrowser {
		return crawler.NewBrowserFetcher(validator)
	}
	return crawler.NewHTTPFetcher(validator)
}

func dataDir(cfg *config.Config) string {
	if cfg.Semantic.DataDir != "" {
		return cfg.Semantic.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wizsearch"
	}
	return filepath.Join(home, ".wizsearch", "data")
}
