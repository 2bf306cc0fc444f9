package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slidesync/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize slidesync configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure slidesync and writes the config file (default .slidesync.yml).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (data in %s)\n", cfgFile, cfg.DataDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
