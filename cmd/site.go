package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidesync/internal/progress"
	"github.com/ziadkadry99/slidesync/internal/site"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"site"},
	Short:   "Export the deck as a static website",
	Long:    `Writes one full-screen presentation document per slide, an index page and a keyboard-driven player to a directory that can be hosted anywhere.`,
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().Bool("serve", false, "start a local HTTP server after exporting")
	exportCmd.Flags().Int("port", 8080, "port for the local server")
	exportCmd.Flags().Bool("open", false, "open browser automatically when serving")
	exportCmd.Flags().String("output", "", "override output directory (defaults to {data_dir}/site)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := openDeck(ctx, cfg, logger)
	if err != nil {
		return err
	}
	deck := d.slides
	d.Close()

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = filepath.Join(cfg.DataDir, "site")
	}

	gen := site.NewSiteGenerator(outputDir, "slidesync", cfg.Render.StylesheetURL)
	gen.Reporter = progress.NewReporter("Exporting slides")
	count, err := gen.Generate(deck)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	fmt.Printf("Exported %d slide(s) to %s\n", count, outputDir)

	serve, _ := cmd.Flags().GetBool("serve")
	if serve {
		port, _ := cmd.Flags().GetInt("port")
		openBrowser, _ := cmd.Flags().GetBool("open")
		if err := site.Serve(ctx, outputDir, port, openBrowser, logger.Named("site")); err != nil {
			return fmt.Errorf("serving: %w", err)
		}
	}
	return nil
}
