package archive

import "time"

// Entry is one archived feed item. Field order mirrors the JSON object
// layout in feed_entries.jsonl, which downstream consumers read line by
// line.
type Entry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// PublishedTime parses the publication timestamp.
func (e Entry) PublishedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Published)
}
