package session

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Session tracks one player's walk through the levels.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Level     string    `json:"level"`
	Visited   []string  `json:"visited"`
	Talks     int       `json:"talks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New starts a session in level.
func New(level string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Level:     level,
		Visited:   []string{level},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Travel moves the session to level, recording it the first time it is seen.
func (s *Session) Travel(level string) {
	s.Level = level
	if !slices.Contains(s.Visited, level) {
		s.Visited = append(s.Visited, level)
	}
}

// Line is one rendered dialogue line, kept in a session's history.
type Line struct {
	Level    string    `json:"level"`
	SpriteID string    `json:"sprite_id"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}
