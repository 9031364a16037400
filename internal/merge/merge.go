// Package merge reconciles freshly extracted feed entries with the current
// archive state. It is pure: slices in, slice out, no I/O, so a run can be
// replayed against the same inputs and produce the same bytes.
package merge

import (
	"sort"
	"time"

	"github.com/ondata/parole-che-uccidono/internal/archive"
)

// Options controls reconciliation.
type Options struct {
	// DedupeLinks also drops entries whose link already appeared, first
	// occurrence wins. Google surfaces the same article under several
	// alert ids; off by default because distinct ids are normally
	// distinct entries.
	DedupeLinks bool
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	Entries        []archive.Entry
	Added          int
	Duplicates     int
	DuplicateLinks int
	Invalid        int
}

type dated struct {
	entry archive.Entry
	ts    time.Time
}

// Reconcile merges incoming entries into the existing archive state.
// Existing entries always win over incoming ones with the same id, and no
// valid existing entry is ever dropped. Entries whose published timestamp
// does not parse are skipped and counted, never fatal. The result is
// ordered published-descending with a stable sort, so equal timestamps
// keep their existing-then-incoming order and repeated runs are
// byte-identical.
func Reconcile(existing, incoming []archive.Entry, opts Options) Result {
	var res Result

	ids := make(map[string]struct{}, len(existing)+len(incoming))
	links := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]dated, 0, len(existing)+len(incoming))

	keep := func(e archive.Entry, ts time.Time) {
		ids[e.ID] = struct{}{}
		if e.Link != "" {
			links[e.Link] = struct{}{}
		}
		merged = append(merged, dated{entry: e, ts: ts})
	}

	for _, e := range existing {
		ts, err := e.PublishedTime()
		if err != nil {
			res.Invalid++
			continue
		}
		keep(e, ts)
	}

	for _, e := range incoming {
		if _, dup := ids[e.ID]; dup {
			res.Duplicates++
			continue
		}
		if opts.DedupeLinks && e.Link != "" {
			if _, dup := links[e.Link]; dup {
				res.DuplicateLinks++
				continue
			}
		}
		ts, err := e.PublishedTime()
		if err != nil {
			res.Invalid++
			continue
		}
		keep(e, ts)
		res.Added++
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ts.After(merged[j].ts)
	})

	res.Entries = make([]archive.Entry, len(merged))
	for i, d := range merged {
		res.Entries[i] = d.entry
	}
	return res
}
