package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spiffcs/tracker/internal/log"
)

// Info is a lightweight summary of one stored template, enough for a
// selection list without holding the full document.
type Info struct {
	Path        string
	Name        string
	Description string
	RepoCount   int
	LastUsed    time.Time
}

// List returns summaries of all template documents under dir, sorted by
// most recently used first, then by name. Corrupt documents are skipped
// with a warning rather than failing the whole listing: one broken file
// must not lock the user out of every other template.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !isTemplateFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		t, err := Load(path)
		if err != nil {
			log.Warn("skipping unreadable template", "path", path, "error", err)
			continue
		}
		infos = append(infos, Info{
			Path:        path,
			Name:        t.Name,
			Description: t.Description,
			RepoCount:   len(t.Repositories),
			LastUsed:    t.LastUsed,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].LastUsed.Equal(infos[j].LastUsed) {
			return infos[i].LastUsed.After(infos[j].LastUsed)
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

func isTemplateFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
