package repository

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/joseph-ayodele/health-summary/internal/entity"
)

// encodedEntry is the column form shared by the SQL stores.
type encodedEntry struct {
	summary  []byte
	feedback []byte
}

func encodeEntry(e entity.RunHistoryEntry) (encodedEntry, error) {
	s, err := json.Marshal(e.Summary)
	if err != nil {
		return encodedEntry{}, fmt.Errorf("marshal summary: %w", err)
	}
	out := encodedEntry{summary: s}
	if e.Feedback != nil {
		fb, err := json.Marshal(e.Feedback)
		if err != nil {
			return encodedEntry{}, fmt.Errorf("marshal feedback: %w", err)
		}
		out.feedback = fb
	}
	return out, nil
}

func decodeEntry(e *entity.RunHistoryEntry, summary, feedback []byte) error {
	if err := json.Unmarshal(summary, &e.Summary); err != nil {
		return fmt.Errorf("unmarshal summary: %w", err)
	}
	if len(feedback) > 0 {
		var fb entity.Feedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return fmt.Errorf("unmarshal feedback: %w", err)
		}
		e.Feedback = &fb
	}
	return nil
}

type migration struct {
	version int
	name    string
	sql     string
}

// loadMigrations returns the *.up.sql files under dir, ordered by their
// numeric prefix ("001_run_history.up.sql" -> 1).
func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}
	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		content, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		out = append(out, migration{version: version, name: name, sql: string(content)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}
