package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

// RedisStorage implements the Storage interface using Redis for sessions
// and the filesystem for levels.
type RedisStorage struct {
	client       *redis.Client
	logger       *slog.Logger
	levels       levelDir
	ttl          time.Duration
	historyLimit int
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// Options tune session retention.
type Options struct {
	SessionTTL   time.Duration
	HistoryLimit int
}

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// bare host:port or a redis:// URL.
func NewRedisStorage(redisURL, dataDir string, opts Options, logger *slog.Logger) (*RedisStorage, error) {
	redisOpts := &redis.Options{Addr: redisURL}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		redisOpts = parsed
	}

	if dataDir == "" {
		dataDir = "./data"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}

	return &RedisStorage{
		client:       redis.NewClient(redisOpts),
		logger:       logger,
		levels:       levelDir(filepath.Join(dataDir, "levels")),
		ttl:          opts.SessionTTL,
		historyLimit: opts.HistoryLimit,
	}, nil
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Level operations (filesystem-backed)

func (r *RedisStorage) ListLevels(ctx context.Context) ([]string, error) {
	return r.levels.list()
}

func (r *RedisStorage) GetLevel(ctx context.Context, id string) (*sprite.Level, error) {
	l, err := r.levels.get(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.logger.Warn("Failed to load level", "level", id, "error", err)
	}
	return l, err
}

// Session operations (Redis-backed)

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func linesKey(id uuid.UUID) string {
	return "session:" + id.String() + ":lines"
}

func (r *RedisStorage) SaveSession(ctx context.Context, s *session.Session) error {
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		r.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Error("Failed to unmarshal session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// maxUpdateRetries bounds how often UpdateSession restarts after another
// writer touched the same session.
const maxUpdateRetries = 25

func (r *RedisStorage) UpdateSession(ctx context.Context, id uuid.UUID, fn func(*session.Session) error) (*session.Session, error) {
	key := sessionKey(id)
	var updated *session.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		var s session.Session
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if err := fn(&s); err != nil {
			return err
		}

		s.UpdatedAt = time.Now()
		out, err := json.Marshal(&s)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		// Fails with redis.TxFailedErr if key changed since the GET.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &s
		return nil
	}

	for attempt := range maxUpdateRetries {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			r.logger.Debug("Session changed during update, retrying", "uuid", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	r.logger.Warn("Giving up on session update", "uuid", id, "attempts", maxUpdateRetries)
	return nil, fmt.Errorf("session %s: %w", id, ErrConflict)
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id), linesKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete session", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisStorage) AppendLine(ctx context.Context, id uuid.UUID, line session.Line) error {
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal line: %w", err)
	}

	key := linesKey(id)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(r.historyLimit-1))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to append line", "uuid", id, "error", err)
		return fmt.Errorf("failed to append line: %w", err)
	}
	return nil
}

func (r *RedisStorage) History(ctx context.Context, id uuid.UUID, limit int) ([]session.Line, error) {
	if limit <= 0 || limit > r.historyLimit {
		limit = r.historyLimit
	}

	raw, err := r.client.LRange(ctx, linesKey(id), 0, int64(limit-1)).Result()
	if err != nil {
		r.logger.Error("Failed to read history", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	lines := make([]session.Line, 0, len(raw))
	for _, item := range raw {
		var line session.Line
		if err := json.Unmarshal([]byte(item), &line); err != nil {
			r.logger.Warn("Skipping unreadable history entry", "uuid", id, "error", err)
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
