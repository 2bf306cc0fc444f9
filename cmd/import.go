package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/slidesync/internal/importer"
	"github.com/ziadkadry99/slidesync/internal/progress"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Import slides from markdown files",
	Long: `Converts markdown files into slides and appends them to the stored deck.
Within a file, a line containing only "---" starts a new slide. Patterns
support ** and are filtered by import.exclude. Run it while the editor
server is stopped; the server keeps its own copy of the deck in memory.`,
	Args: cobra.MinimumNArgs(1),
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

		files, err := importer.Expand(args, cfg.Import.Exclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files match %v", args)
		}

		ctx := context.Background()
		d, err := openDeck(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		var base []slides.Slide
		if !importReplace {
			base = d.slides
		}

		im := importer.New(progress.NewReporter("Importing slides"), logger.Named("import"))
		imported, err := im.ImportFiles(files, len(base))
		if err != nil {
			return err
		}
		merged := append(base, imported...)
		if err := slides.Validate(merged); err != nil {
			return err
		}
		if err := d.adapter.Save(ctx, merged); err != nil {
			return err
		}

		logger.Info("import complete",
			zap.Int("files", len(files)),
			zap.Int("slides", len(imported)),
			zap.Bool("replace", importReplace),
		)
		fmt.Printf("Imported %d slide(s) from %d file(s); deck now has %d slide(s).\n", len(imported), len(files), len(merged))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "replace the stored deck instead of appending")
	rootCmd.AddCommand(importCmd)
}
