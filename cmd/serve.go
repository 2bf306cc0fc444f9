package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/slidesync/internal/mcp"
	"github.com/ziadkadry99/slidesync/internal/persist"
	"github.com/ziadkadry99/slidesync/internal/slides"
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Aliases: []string{"serve"},
	Short:   "Start the MCP server for AI agent integration",
	Long:    `Starts a Model Context Protocol (MCP) server on stdio, exposing tools to list, read, edit and locate source in the stored slide deck.`,
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

		writer := persist.NewWriter(d.adapter, logger.Named("persist"))
		defer writer.Close()

		store, err := slides.NewStore(d.slides)
		if err != nil {
			return fmt.Errorf("loading slides: %w", err)
		}
		store.OnChange(writer.Schedule)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "slidesync MCP server started on stdio (db=%s, slides=%d)\n", d.db.Path(), store.Len())

		srv := mcpserver.NewServer(store, logger.Named("mcp"))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
