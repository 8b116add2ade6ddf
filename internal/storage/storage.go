package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means UpdateSession kept losing to other writers.
	ErrConflict = errors.New("too many concurrent updates")
)

// Storage combines session persistence (Redis) with level loading
// (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Level operations (filesystem-backed)
	ListLevels(ctx context.Context) ([]string, error)
	GetLevel(ctx context.Context, id string) (*sprite.Level, error)

	// Session operations (Redis-backed)
	SaveSession(ctx context.Context, s *session.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	// UpdateSession applies fn to the stored session and saves the result.
	// fn may run more than once if the session changes underneath it; an
	// error from fn aborts the update and is returned unchanged.
	UpdateSession(ctx context.Context, id uuid.UUID, fn func(*session.Session) error) (*session.Session, error)

	// AppendLine records a rendered line, keeping only the newest ones.
	AppendLine(ctx context.Context, id uuid.UUID, line session.Line) error
	// History returns up to limit lines, newest first.
	History(ctx context.Context, id uuid.UUID, limit int) ([]session.Line, error)
}
