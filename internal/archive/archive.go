// Package archive reads and writes the JSONL entry archive. The file is the
// single durable artifact of the whole pipeline: one JSON object per line,
// newest entry first, rewritten in full on every successful run.
package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// maxLineBytes bounds a single archive line. Feed titles and links are
// small; anything near this limit is a corrupt file, not data.
const maxLineBytes = 1 << 20

// CorruptError reports an archive line that could not be read as one
// JSON entry, whether undecodable or past the line length bound. A run
// must stop on it: rewriting an archive that was not fully read would
// silently drop entries.
type CorruptError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("archive %s: line %d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Load reads every entry from the archive at path, preserving file order.
// A missing file is an empty archive, not an error.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, &CorruptError{Path: path, Line: line, Err: err}
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &CorruptError{Path: path, Line: line + 1, Err: err}
		}
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return entries, nil
}

// Save writes entries to path as JSONL, one object per line in slice order.
// The write goes to a temp file in the same directory and is renamed over
// the target, so a crash mid-write leaves the previous archive intact.
func Save(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	// The archive is plain UTF-8 text, not HTML. Escaping &, <, > would
	// mangle links and the markup Google Alerts puts in titles.
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			tmp.Close()
			return fmt.Errorf("encoding entry %s: %w", e.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing archive: %w", err)
	}
	return nil
}
