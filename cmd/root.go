package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/logging"
)

var captureDir string

var rootCmd = &cobra.Command{
	Use:   "roster-sync",
	Short: "Scrape, clean and enrich sports team rosters",
	Long: `Roster Sync scrapes team rosters from StatMuse into a SQL database,
repairs player names that were stored with an abbreviated repeat
("Ryan BurrR. Burr"), and enriches players with AI generated
pronunciations.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save fetched roster pages for testing")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	logCfg := config.Load().Log
	logging.Setup(logCfg.Level, logCfg.Format)
}
