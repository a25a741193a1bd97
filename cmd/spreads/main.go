package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot-spreads/internal/adapters/decks"
	"github.com/randomtoy/tarot-spreads/internal/adapters/llm/openrouter"
	"github.com/randomtoy/tarot-spreads/internal/adapters/spreads"
	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/config"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "spreads",
	Short:         "Lay tarot cards onto spreads by drag and drop",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SPREADS_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, tuiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int   { return rand.IntN(n) }
func (stdRNG) Float64() float64 { return rand.Float64() }

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		level, err := config.ParseLogLevel(logLevel)
		if err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// rngFactory gives every session its own generator. A fixed seed makes each
// new session replay the same shuffles.
func rngFactory(seed uint64) func() domain.RNG {
	if seed == 0 {
		return func() domain.RNG { return stdRNG{} }
	}
	return func() domain.RNG { return domain.NewSeededRNG(seed) }
}

func loadCatalog(ctx context.Context, cfg config.Config) (*domain.Catalog, error) {
	src := spreads.NewEmbeddedSource()
	if cfg.SpreadsFile != "" {
		var err error
		if src, err = spreads.NewFileSource(cfg.SpreadsFile); err != nil {
			return nil, err
		}
	}
	catalog, err := spreads.LoadCatalog(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load spreads: %w", err)
	}
	return catalog, nil
}

func newInterpreter(cfg config.Config, logger *slog.Logger) ports.Interpreter {
	if cfg.LLMProvider != "openrouter" {
		return nil
	}
	return openrouter.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.OpenRouterAPIKey,
		cfg.OpenRouterBaseURL,
		cfg.LLMModel,
		cfg.LLMFallbackModels,
		logger,
	)
}

// newService wires the application service. slop is the coarse-backend
// threshold in the front end's own units.
func newService(ctx context.Context, cfg config.Config, slop float64, logger *slog.Logger) (*app.SpreadService, error) {
	placement, err := app.ParsePlacementMode(cfg.PlacementMode)
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svcCfg := app.ServiceConfig{
		DeckID:       cfg.DeckID,
		Spread:       domain.SpreadID(cfg.DefaultSpread),
		Placement:    placement,
		TouchSlop:    slop,
		Model:        cfg.LLMModel,
		SessionLimit: cfg.SessionLimit,
		IdleTTL:      cfg.SessionIdleTTL,
	}
	return app.NewSpreadService(
		decks.NewEmbeddedStore(),
		catalog,
		newInterpreter(cfg, logger),
		rngFactory(cfg.Seed),
		svcCfg,
		logger,
	), nil
}
