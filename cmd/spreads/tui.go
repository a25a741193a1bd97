package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/randomtoy/tarot-spreads/internal/adapters/tui"
	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

var (
	tuiSpread string
	tuiStyle  string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Lay a spread in the terminal with the mouse",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// stdout is the screen; logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			out = f
		}
		logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))
		slog.SetDefault(logger)

		ctx := cmd.Context()
		svc, err := newService(ctx, cfg, tui.CellSlop, logger)
		if err != nil {
			return err
		}
		session, err := svc.NewSession(ctx, app.CreateSessionRequest{
			DeckID:       cfg.DeckID,
			Spread:       domain.SpreadID(tuiSpread),
			Capabilities: interaction.Capabilities{MaxTouchPoints: cfg.TouchPoints},
		})
		if err != nil {
			return err
		}
		logger.Info("table opened", "deck", session.DeckID(), "spread", session.Spread().ID, "backend", session.Backend())

		model := tui.New(session, tui.Options{GlamourStyle: tuiStyle, Logger: logger})
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
		_, err = p.Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiSpread, "spread", "", "Spread to open (default from config)")
	tuiCmd.Flags().StringVar(&tuiStyle, "style", "dark", "Card detail style (dark, light, notty)")
}
