package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagArchive string
	flagFeedURL string
	flagDryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "parole-che-uccidono",
	Short: "Archive Google Alerts entries into a JSONL file",
	Long: `parole-che-uccidono polls the configured Google Alerts feeds and folds
the entries into data/feed_entries.jsonl: deduplicated by id, newest first,
never dropping an archived entry. Scheduling runs and committing the file
are left to the calling workflow.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagArchive, "archive", "", "archive path override")
	rootCmd.Flags().StringVar(&flagFeedURL, "feed-url", "", "poll a single feed URL instead of the configured sources")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "fetch and reconcile but do not write the archive")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parole-che-uccidono %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
