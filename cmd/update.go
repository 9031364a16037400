package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ondata/parole-che-uccidono/internal/archive"
	"github.com/ondata/parole-che-uccidono/internal/config"
	"github.com/ondata/parole-che-uccidono/internal/feed"
	"github.com/ondata/parole-che-uccidono/internal/merge"
)

type updateOpts struct {
	sources     []config.Source
	archivePath string
	timeout     time.Duration
	userAgent   string
	dedupeLinks bool
	dryRun      bool
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := updateOpts{
		sources:     cfg.EnabledSources(),
		archivePath: cfg.ArchivePath(),
		timeout:     cfg.TimeoutDuration(),
		userAgent:   cfg.GetUserAgent(),
		dedupeLinks: cfg.DedupeLinks,
		dryRun:      flagDryRun,
	}
	if flagFeedURL != "" {
		opts.sources = []config.Source{{Name: "flag", URL: flagFeedURL, Enabled: true}}
	}
	if flagArchive != "" {
		opts.archivePath = flagArchive
	}

	return update(cmd.Context(), opts)
}

// update runs one full cycle: fetch and extract every source in order,
// load the archive, reconcile, save. Sources are processed sequentially
// and any fetch, parse, or archive error aborts before the save, so a
// failed run leaves the last good archive untouched.
func update(ctx context.Context, opts updateOpts) error {
	start := time.Now()

	if len(opts.sources) == 0 {
		return fmt.Errorf("no enabled sources configured")
	}

	client := feed.NewClient(opts.timeout, opts.userAgent)

	var (
		incoming []archive.Entry
		skipped  int
	)
	for _, src := range opts.sources {
		slog.Info("Fetching feed", "source", src.Name, "url", src.URL)
		data, err := client.Fetch(ctx, src.URL)
		if err != nil {
			return err
		}

		entries, n, err := feed.Extract(data)
		if err != nil {
			return fmt.Errorf("feed %s: %w", src.Name, err)
		}
		skipped += n
		incoming = append(incoming, entries...)
		slog.Info("Feed extracted", "source", src.Name, "entries", len(entries), "skipped", n)
	}

	existing, err := archive.Load(opts.archivePath)
	if err != nil {
		return err
	}

	res := merge.Reconcile(existing, incoming, merge.Options{DedupeLinks: opts.dedupeLinks})

	if opts.dryRun {
		slog.Info("Dry run, archive not written",
			"archive", opts.archivePath,
			"total", len(res.Entries),
			"new", res.Added,
			"duplicates", res.Duplicates,
			"duplicate_links", res.DuplicateLinks,
			"invalid", res.Invalid+skipped)
		return nil
	}

	if err := archive.Save(opts.archivePath, res.Entries); err != nil {
		return err
	}

	slog.Info("Run completed",
		"archive", opts.archivePath,
		"duration", time.Since(start).Round(time.Millisecond),
		"total", len(res.Entries),
		"new", res.Added,
		"duplicates", res.Duplicates,
		"duplicate_links", res.DuplicateLinks,
		"invalid", res.Invalid+skipped)
	return nil
}
