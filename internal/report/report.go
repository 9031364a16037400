// Package report derives the per-domain summary from archived entries:
// which sites the alerts keep pointing at, and how often. It only ever
// reads the archive.
package report

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ondata/parole-che-uccidono/internal/archive"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"})
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"})
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
)

type DomainCount struct {
	Domain string
	Count  int
}

type Summary struct {
	Domains []DomainCount
	Total   int
	Skipped int
}

// Build groups entries by the origin domain of their link. Domains are
// ordered by count descending, ties alphabetically, so the output is
// deterministic. Entries without a usable link are counted as skipped.
func Build(entries []archive.Entry) Summary {
	counts := make(map[string]int)
	skipped := 0
	for _, e := range entries {
		d := domainOf(e.Link)
		if d == "" {
			skipped++
			continue
		}
		counts[d]++
	}

	domains := make([]DomainCount, 0, len(counts))
	for d, n := range counts {
		domains = append(domains, DomainCount{Domain: d, Count: n})
	}
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Count != domains[j].Count {
			return domains[i].Count > domains[j].Count
		}
		return domains[i].Domain < domains[j].Domain
	})

	return Summary{Domains: domains, Total: len(entries), Skipped: skipped}
}

// Format renders the summary as a Markdown table, the shape the scheduled
// workflow commits next to the archive. limit <= 0 keeps every domain.
func (s Summary) Format(limit int) string {
	rows := s.top(limit)

	var b strings.Builder
	b.WriteString("# Domain summary\n\n")
	fmt.Fprintf(&b, "%d entries across %d domains.\n\n", s.Total-s.Skipped, len(s.Domains))
	b.WriteString("| Domain | Entries |\n")
	b.WriteString("|--------|--------:|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %d |\n", r.Domain, r.Count)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "\n%d entries had no usable link.\n", s.Skipped)
	}
	return b.String()
}

// Render formats the summary for the terminal.
func (s Summary) Render(limit int) string {
	rows := s.top(limit)

	width := len("DOMAIN")
	for _, r := range rows {
		if len(r.Domain) > width {
			width = len(r.Domain)
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Domain summary"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d entries, %d domains", s.Total-s.Skipped, len(s.Domains))))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s  %7s", width, "DOMAIN", "ENTRIES")))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r.Domain, countStyle.Render(fmt.Sprintf("%7d", r.Count)))
	}
	if s.Skipped > 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d entries without a usable link", s.Skipped)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s Summary) top(limit int) []DomainCount {
	if limit > 0 && len(s.Domains) > limit {
		return s.Domains[:limit]
	}
	return s.Domains
}

func domainOf(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
