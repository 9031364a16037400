package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ondata/parole-che-uccidono/internal/archive"
)

// Google Alerts wraps every article URL in a click-tracking redirect.
const googleRedirectPrefix = "https://www.google.com/url?rct=j&sa=t&url="

// ParseError reports a feed document that could not be parsed at all.
// Like a fetch failure, it aborts the run before the archive is touched.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing feed: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Extract pulls the archived fields out of a fetched feed document,
// preserving document order. An entry must carry an id and a publication
// time; entries stamped only with an update time use that instead, and
// entries with neither are skipped and counted in the second return
// value. Title and link are optional and default to "".
func Extract(data []byte) ([]archive.Entry, int, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, 0, &ParseError{Err: err}
	}

	var (
		entries []archive.Entry
		skipped int
	)
	for _, item := range parsed.Items {
		ts := item.PublishedParsed
		if ts == nil {
			ts = item.UpdatedParsed
		}
		if item.GUID == "" || ts == nil {
			skipped++
			continue
		}
		entries = append(entries, archive.Entry{
			ID:    item.GUID,
			Title: item.Title,
			Link:  cleanRedirect(item.Link),
			// Normalized to UTC so archived timestamps sort the same
			// regardless of the offset the feed happened to emit.
			Published: ts.UTC().Format(time.RFC3339),
		})
	}
	return entries, skipped, nil
}

// cleanRedirect unwraps the Google Alerts redirect and returns the real
// article URL. Links in any other shape pass through unchanged.
func cleanRedirect(link string) string {
	rest, ok := strings.CutPrefix(link, googleRedirectPrefix)
	if !ok {
		return link
	}
	if target, _, found := strings.Cut(rest, "&ct="); found {
		return target
	}
	return rest
}
