package feed

import (
	"errors"
	"testing"
)

const alertFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:idx="urn:atom-extension:indexing">
  <id>tag:google.com,2005:reader/user/00000000000000000000/state/com.google/alerts/1111111111111111111</id>
  <title>Google Alert - violenza donne</title>
  <link href="https://www.google.com/alerts/feeds/00000000000000000000/1111111111111111111" rel="self"/>
  <updated>2024-05-02T08:00:01Z</updated>
  <entry>
    <id>tag:google.com,2013:googlealerts/feed:11111</id>
    <title type="html">Femminicidio a &lt;b&gt;Roma&lt;/b&gt;, indagini in corso</title>
    <link href="https://www.google.com/url?rct=j&amp;sa=t&amp;url=https://news.example/articolo-1&amp;ct=ga&amp;cd=CAIyGjA&amp;usg=AOvVaw0"/>
    <published>2024-05-02T06:30:00Z</published>
    <updated>2024-05-02T06:30:00Z</updated>
    <content type="html">Cronaca dalla capitale</content>
  </entry>
  <entry>
    <id>tag:google.com,2013:googlealerts/feed:22222</id>
    <title type="html">Violenza di genere, nuovo rapporto</title>
    <link href="https://www.google.com/url?rct=j&amp;sa=t&amp;url=https://altra.example/rapporto&amp;ct=ga&amp;cd=CAIyGjB&amp;usg=AOvVaw1"/>
    <published>2024-05-02T08:30:00+02:00</published>
    <updated>2024-05-02T08:30:00+02:00</updated>
  </entry>
</feed>`

const sparseFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>tag:example.org,2024:feed</id>
  <title>Sparse</title>
  <updated>2024-05-02T08:00:01Z</updated>
  <entry>
    <id>tag:example.org,2024:no-title</id>
    <link href="https://news.example/no-title"/>
    <published>2024-05-01T10:00:00Z</published>
  </entry>
  <entry>
    <id>tag:example.org,2024:no-link</id>
    <title>No link here</title>
    <published>2024-05-01T09:00:00Z</published>
  </entry>
  <entry>
    <id>tag:example.org,2024:updated-only</id>
    <title>Only updated</title>
    <link href="https://news.example/updated-only"/>
    <updated>2024-05-01T08:00:00Z</updated>
  </entry>
  <entry>
    <id>tag:example.org,2024:no-timestamps</id>
    <title>No timestamps at all</title>
    <link href="https://news.example/no-timestamps"/>
  </entry>
  <entry>
    <title>No id at all</title>
    <link href="https://news.example/no-id"/>
    <published>2024-05-01T07:00:00Z</published>
  </entry>
</feed>`

const rssFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Cronaca locale</title>
    <link>https://cronaca.example</link>
    <description>Notizie</description>
    <item>
      <title>Un articolo</title>
      <link>https://cronaca.example/articolo</link>
      <guid>https://cronaca.example/articolo</guid>
      <pubDate>Thu, 02 May 2024 06:30:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestExtract(t *testing.T) {
	entries, skipped, err := Extract([]byte(alertFeedXML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", skipped)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.ID != "tag:google.com,2013:googlealerts/feed:11111" {
		t.Errorf("unexpected id %q", first.ID)
	}
	if first.Title != "Femminicidio a <b>Roma</b>, indagini in corso" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Link != "https://news.example/articolo-1" {
		t.Errorf("redirect not cleaned: %q", first.Link)
	}
	if first.Published != "2024-05-02T06:30:00Z" {
		t.Errorf("unexpected published %q", first.Published)
	}
}

func TestExtractNormalizesTimezone(t *testing.T) {
	entries, _, err := Extract([]byte(alertFeedXML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	// Second entry is stamped 08:30+02:00 in the document.
	if entries[1].Published != "2024-05-02T06:30:00Z" {
		t.Errorf("expected UTC-normalized published, got %q", entries[1].Published)
	}
}

func TestExtractPreservesDocumentOrder(t *testing.T) {
	entries, _, err := Extract([]byte(alertFeedXML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if entries[0].ID != "tag:google.com,2013:googlealerts/feed:11111" ||
		entries[1].ID != "tag:google.com,2013:googlealerts/feed:22222" {
		t.Errorf("document order not preserved: %q then %q", entries[0].ID, entries[1].ID)
	}
}

func TestExtractSparseEntries(t *testing.T) {
	entries, skipped, err := Extract([]byte(sparseFeedXML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if skipped != 2 {
		t.Errorf("expected 2 skipped (no timestamps, no id), got %d", skipped)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "" {
		t.Errorf("missing title should extract as empty, got %q", entries[0].Title)
	}
	if entries[1].Link != "" {
		t.Errorf("missing link should extract as empty, got %q", entries[1].Link)
	}
	if entries[2].ID != "tag:example.org,2024:updated-only" {
		t.Fatalf("expected the updated-only entry to be kept, got %q", entries[2].ID)
	}
	if entries[2].Published != "2024-05-01T08:00:00Z" {
		t.Errorf("expected the update time as published, got %q", entries[2].Published)
	}
}

func TestExtractRSS(t *testing.T) {
	entries, skipped, err := Extract([]byte(rssFeedXML))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", skipped)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != "https://cronaca.example/articolo" {
		t.Errorf("unexpected id %q", entries[0].ID)
	}
	if entries[0].Published != "2024-05-02T06:30:00Z" {
		t.Errorf("unexpected published %q", entries[0].Published)
	}
}

func TestExtractMalformedDocument(t *testing.T) {
	_, _, err := Extract([]byte("this is not xml"))
	if err == nil {
		t.Fatal("expected error for malformed document")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestCleanRedirect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "redirect with tracking suffix",
			in:   "https://www.google.com/url?rct=j&sa=t&url=https://news.example/articolo&ct=ga&cd=CAIyGjA&usg=AOvVaw0",
			want: "https://news.example/articolo",
		},
		{
			name: "redirect without tracking suffix",
			in:   "https://www.google.com/url?rct=j&sa=t&url=https://news.example/articolo",
			want: "https://news.example/articolo",
		},
		{
			name: "plain link passes through",
			in:   "https://news.example/articolo",
			want: "https://news.example/articolo",
		},
		{
			name: "other google url passes through",
			in:   "https://www.google.com/url?q=https://news.example",
			want: "https://www.google.com/url?q=https://news.example",
		},
		{
			name: "empty link",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		if got := cleanRedirect(tt.in); got != tt.want {
			t.Errorf("%s: cleanRedirect(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
