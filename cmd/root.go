package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidesync/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "slidesync",
	Short: "Live HTML slide editor with synchronized preview and presentation mode",
	Long: `slidesync edits a deck of HTML slides in the browser with a live,
auto-fitted preview. Clicking an element in the preview selects its source,
and presentation mode steps through the deck full screen. Decks can be
imported from markdown, exported as a static site, presented in the terminal
and edited by AI agents via MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
