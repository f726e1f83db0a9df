package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry(slog.Default(), Options{})
	defer r.CloseAll()

	s := r.Create(mines.Expert, "alice")
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, mines.Expert, got.Difficulty())

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Remove(s.ID))
	assert.ErrorIs(t, r.Remove(s.ID), ErrNotFound)
	_, err = r.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Reveal(0, 0), ErrClosed)
}

func TestSweep(t *testing.T) {
	t.Parallel()
	r := NewRegistry(slog.Default(), Options{})
	defer r.CloseAll()

	idle := r.Create(mines.Beginner, "")
	time.Sleep(20 * time.Millisecond)
	active := r.Create(mines.Beginner, "")

	assert.Equal(t, 0, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Sweep(10*time.Millisecond))

	_, err := r.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Get(active.ID)
	assert.NoError(t, err)
}

func TestRunSweeperClosesSessionsOnShutdown(t *testing.T) {
	t.Parallel()
	r := NewRegistry(slog.Default(), Options{})
	s := r.Create(mines.Beginner, "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.RunSweeper(ctx, time.Millisecond, time.Hour) }()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, r.Len())
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, s.ToggleFlag(0, 0), ErrClosed)
}
