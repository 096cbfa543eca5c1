package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseSlot(t *testing.T, s Slot) {
	t.Helper()
	ctx := context.Background()

	b, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, b, "fresh slot must be empty")

	require.NoError(t, s.Save(ctx, []byte(`{"perfil":{}}`)))
	b, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"perfil":{}}`, string(b))

	require.NoError(t, s.Save(ctx, []byte(`{"relatorios":{}}`)))
	b, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"relatorios":{}}`, string(b))
}

func TestMemorySlot(t *testing.T) {
	exerciseSlot(t, NewMemorySlot(nil))
}

func TestMemorySlotSaveErr(t *testing.T) {
	s := NewMemorySlot([]byte("x"))
	s.SaveErr = errors.New("quota exceeded")
	require.Error(t, s.Save(context.Background(), []byte("y")))
	b, _ := s.Load(context.Background())
	assert.Equal(t, "x", string(b))
	assert.Equal(t, 0, s.Saves())
}

func TestFileSlot(t *testing.T) {
	s, err := NewFileSlot(filepath.Join(t.TempDir(), "nested", "data.json"))
	require.NoError(t, err)
	exerciseSlot(t, s)
}

func TestFileSlotCanceledContext(t *testing.T) {
	s, err := NewFileSlot(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, []byte("x")), context.Canceled)
}

func TestSQLiteSlot(t *testing.T) {
	s, err := NewSQLiteSlot(filepath.Join(t.TempDir(), "data.db"), "")
	require.NoError(t, err)
	defer s.Close()
	exerciseSlot(t, s)
}

func TestSQLiteSlotKeysAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	a, err := NewSQLiteSlot(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteSlot(path, "b")
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, a.Save(ctx, []byte("one")))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
