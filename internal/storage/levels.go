package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jwebster45206/burrow/pkg/sprite"
)

// levelDir loads level files from DATA_DIR/levels.
type levelDir string

func (d levelDir) list() ([]string, error) {
	entries, err := os.ReadDir(string(d))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read levels directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !sprite.IsLevelFile(entry.Name()) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (d levelDir) get(id string) (*sprite.Level, error) {
	// Level ids are snake_case, which also keeps lookups inside the directory.
	if !sprite.ValidID(id) {
		return nil, fmt.Errorf("level %q: %w", id, ErrNotFound)
	}

	for _, ext := range sprite.Extensions {
		path := filepath.Join(string(d), id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return sprite.LoadLevel(path, false)
	}

	return nil, fmt.Errorf("level %q: %w", id, ErrNotFound)
}
