package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/slides"
	"github.com/ziadkadry99/slidesync/internal/tui"
)

var presentStart int

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Present the deck in the terminal",
	Long:  `Presents the stored deck full screen in the terminal. Arrow keys navigate, Escape returns to the slide overview and q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		d, err := openDeck(context.Background(), cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		store, err := slides.NewStore(d.slides)
		if err != nil {
			return fmt.Errorf("loading slides: %w", err)
		}

		// Log lines on stderr would tear the alternate screen.
		tuiLogger := zap.NewNop()
		if cfg.Log.File != "" {
			tuiLogger = logger.Named("tui")
		}

		return tui.Run(store, tui.Options{
			Title:       "slidesync",
			StartAt:     presentStart - 1,
			Autostart:   true,
			IdleTimeout: cfg.IdleTimeout(),
			Logger:      tuiLogger,
		})
	},
}

func init() {
	presentCmd.Flags().IntVar(&presentStart, "start", 1, "1-based slide to start from")
	rootCmd.AddCommand(presentCmd)
}
