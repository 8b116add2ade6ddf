package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

func TestMockStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMockStorage()

	m.AddLevel(&sprite.Level{ID: "b"})
	m.AddLevel(&sprite.Level{ID: "a"})
	ids, err := m.ListLevels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	_, err = m.GetLevel(ctx, "c")
	assert.True(t, errors.Is(err, ErrNotFound))

	s := session.New("a")
	require.NoError(t, m.SaveSession(ctx, s))
	s.Travel("b")
	loaded, err := m.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Level, "saved copy is isolated from later changes")

	updated, err := m.UpdateSession(ctx, s.ID, func(cur *session.Session) error {
		cur.Travel("b")
		return nil
	})
	require.NoError(t, err)
	updated.Talks = 7
	loaded, err = m.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.Level)
	assert.Equal(t, 0, loaded.Talks, "returned session is a copy")

	_, err = m.UpdateSession(ctx, s.ID, func(cur *session.Session) error {
		cur.Level = "zzz"
		return errors.New("abort")
	})
	assert.Error(t, err)
	loaded, err = m.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.Level)

	require.NoError(t, m.AppendLine(ctx, s.ID, session.Line{Text: "one"}))
	require.NoError(t, m.AppendLine(ctx, s.ID, session.Line{Text: "two"}))
	lines, err := m.History(ctx, s.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []session.Line{{Text: "two"}}, lines)

	require.NoError(t, m.DeleteSession(ctx, s.ID))
	_, err = m.LoadSession(ctx, s.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	m.SetPingError(errors.New("down"))
	assert.Error(t, m.Ping(ctx))
}
