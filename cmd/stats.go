package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ondata/parole-che-uccidono/internal/archive"
	"github.com/ondata/parole-che-uccidono/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show archive statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		path := cfg.ArchivePath()
		if flagArchive != "" {
			path = flagArchive
		}

		entries, err := archive.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("Archive: %s\n", path)
		fmt.Printf("Entries: %d\n", len(entries))
		if info, err := os.Stat(path); err == nil {
			fmt.Printf("Size: %s\n", formatBytes(info.Size()))
		}
		if len(entries) > 0 {
			// The archive is kept newest first.
			fmt.Printf("Newest: %s\n", entries[0].Published)
			fmt.Printf("Oldest: %s\n", entries[len(entries)-1].Published)
		}
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
