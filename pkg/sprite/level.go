package sprite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/burrow/pkg/textfilter"
)

// Level is one map and the sprites placed in it.
type Level struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Map     string   `json:"map,omitempty" yaml:"map,omitempty"`
	Rating  string   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Sprites []Sprite `json:"sprites" yaml:"sprites"`
}

// MapAsset is the scene asset the engine loads for the level.
func (l *Level) MapAsset() string {
	m := l.Map
	if m == "" {
		m = l.ID + ".map"
	}
	return "maps/" + m + "#Scene"
}

// Sprite finds a sprite by id.
func (l *Level) Sprite(id string) (*Sprite, error) {
	for i := range l.Sprites {
		if l.Sprites[i].ID == id {
			return &l.Sprites[i], nil
		}
	}
	return nil, fmt.Errorf("%s in level %s: %w", id, l.ID, ErrUnknownSprite)
}

// Extensions are the level file extensions understood by DecodeLevel.
var Extensions = []string{".json", ".yaml", ".yml"}

// IsLevelFile reports whether path has a level file extension.
func IsLevelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DecodeLevel parses a level in the format given by ext. In strict mode
// unknown fields are rejected. Templates are normalized to NFC.
func DecodeLevel(data []byte, ext string, strict bool) (*Level, error) {
	var l Level

	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		if strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode level json: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(strict)
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode level yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported level format %q", ext)
	}

	for i := range l.Sprites {
		l.Sprites[i].Text = textfilter.Normalize(l.Sprites[i].Text)
	}
	return &l, nil
}

// LoadLevel reads a level file. The file name without extension overrides
// any id in the file.
func LoadLevel(path string, strict bool) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	ext := filepath.Ext(path)
	l, err := DecodeLevel(data, ext, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.ID = strings.TrimSuffix(filepath.Base(path), ext)
	return l, nil
}
