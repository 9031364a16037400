package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ondata/parole-che-uccidono/internal/archive"
	"github.com/ondata/parole-che-uccidono/internal/config"
	"github.com/ondata/parole-che-uccidono/internal/report"
)

var (
	flagReportOut string
	flagReportTop int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize archived entries by domain",
	Long: `Group the archived entries by the domain their link points at and print
a count table, most covered domains first. With --out (or a summary path in
the config) the table is also written to disk as Markdown.`,
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
		if len(entries) == 0 {
			fmt.Printf("Archive %s is empty.\n", path)
			return nil
		}

		summary := report.Build(entries)
		fmt.Println(summary.Render(flagReportTop))

		out := cfg.SummaryPath()
		if flagReportOut != "" {
			out = flagReportOut
		}
		if out == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("creating summary dir: %w", err)
		}
		if err := os.WriteFile(out, []byte(summary.Format(flagReportTop)), 0o644); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		fmt.Printf("Summary written to %s\n", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&flagReportOut, "out", "", "write the summary as Markdown to this path")
	reportCmd.Flags().IntVar(&flagReportTop, "top", 0, "limit the table to the N most covered domains")
}
