package tui

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/gesture"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/session"
)

type fakeStore struct {
	filter     repository.HighscoreFilter
	highscores []repository.Highscore
	err        error
}

func (s *fakeStore) RecordWin(ctx context.Context, h repository.Highscore) error {
	s.highscores = append(s.highscores, h)
	return s.err
}

func (s *fakeStore) GetHighscores(
	ctx context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	s.filter = filter
	return s.highscores, s.err
}

func newTestModel(t *testing.T, store repository.Store) (Model, *session.Session) {
	t.Helper()
	s := session.New(uuid.New(), mines.Beginner, "tester", session.Options{
		Rand: rand.New(rand.NewPCG(7, 7)),
	})
	t.Cleanup(s.Close)
	return NewModel(s, store, nil), s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestCellAt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, y int
		want mines.Point
	}{
		{x: 0, y: 2, want: mines.Point{Row: 0, Col: 0}},
		{x: 1, y: 2, want: mines.Point{Row: 0, Col: 0}},
		{x: 2, y: 2, want: mines.Point{Row: 0, Col: 1}},
		{x: 17, y: 10, want: mines.Point{Row: 8, Col: 8}},
		{x: -1, y: 0, want: mines.Point{Row: -2, Col: -1}},
		{x: 4, y: 1, want: mines.Point{Row: -1, Col: 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cellAt(tt.x, tt.y), "x=%d y=%d", tt.x, tt.y)
	}
}

func TestCursorMovement(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	assert.Equal(t, mines.Point{Row: 4, Col: 4}, m.cursor)

	for range 10 {
		m, _ = send(t, m, runes("k"))
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	assert.Equal(t, mines.Point{Row: 0, Col: 8}, m.cursor)

	for range 10 {
		m, _ = send(t, m, runes("j"))
		m, _ = send(t, m, runes("h"))
	}
	assert.Equal(t, mines.Point{Row: 8, Col: 0}, m.cursor)
}

func TestKeyActions(t *testing.T) {
	t.Parallel()
	m, s := newTestModel(t, nil)

	m, _ = send(t, m, runes("f"))
	assert.Equal(t, mines.Flagged, m.view.Cell(m.cursor).State)
	assert.Equal(t, 9, m.view.MinesLeft)

	m, _ = send(t, m, runes("f"))
	m, _ = send(t, m, runes("f"))
	assert.Equal(t, mines.Hidden, m.view.Cell(m.cursor).State)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.NoError(t, m.err)
	assert.Equal(t, mines.Revealed, m.view.Cell(m.cursor).State)
	assert.NotEqual(t, mines.NotStarted, m.view.Status)
	assert.Equal(t, s.Snapshot().Status, m.view.Status)

	m, _ = send(t, m, runes("n"))
	assert.Equal(t, mines.NotStarted, m.view.Status)
	assert.Equal(t, mines.Beginner, m.view.Difficulty)

	m, _ = send(t, m, runes("3"))
	assert.Equal(t, mines.Expert, m.view.Difficulty)
	assert.Equal(t, 16, m.view.Rows)
	assert.Equal(t, 30, m.view.Cols)

	m, _ = send(t, m, runes("1"))
	assert.Equal(t, 9, m.view.Rows)
	assert.Less(t, m.cursor.Row, 9)
	assert.Less(t, m.cursor.Col, 9)
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestMouseReveal(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	// x=8 is column 4, y=6 is row 4
	m, _ = send(t, m, tea.MouseMsg{X: 8, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NoError(t, m.err)
	assert.True(t, m.held[gesture.Left])
	assert.Equal(t, mines.Point{Row: 4, Col: 4}, m.cursor)
	assert.Equal(t, mines.Revealed, m.view.Cell(mines.Point{Row: 4, Col: 4}).State)
	assert.NotEqual(t, mines.NotStarted, m.view.Status)

	// release without a button reported
	m, _ = send(t, m, tea.MouseMsg{X: 8, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	require.NoError(t, m.err)
	assert.Empty(t, m.held)
}

func TestMouseFlag(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m, _ = send(t, m, tea.MouseMsg{X: 0, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	m, _ = send(t, m, tea.MouseMsg{X: 0, Y: 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight})
	assert.Equal(t, mines.Flagged, m.view.Cell(mines.Point{}).State)
}

func TestMouseOutsideBoard(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m, cmd := send(t, m, tea.MouseMsg{X: 8, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, cmd)
	assert.Empty(t, m.held)
	assert.Equal(t, mines.NotStarted, m.view.Status)
}

func TestLoadHighscores(t *testing.T) {
	t.Parallel()
	player := "alice"
	store := &fakeStore{highscores: []repository.Highscore{
		{Player: &player, Difficulty: "beginner", Seconds: 5},
	}}
	m, _ := newTestModel(t, store)

	msg := m.loadHighscores()()
	require.IsType(t, highscoresMsg{}, msg)
	require.NotNil(t, store.filter.Difficulty)
	assert.Equal(t, "beginner", *store.filter.Difficulty)
	assert.Equal(t, highscoreCount, store.filter.Limit)

	m, _ = send(t, m, msg)
	assert.Len(t, m.highscores, 1)
	assert.Contains(t, m.View(), "1. alice")

	// switching difficulty reloads the table
	_, cmd := send(t, m, runes("2"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "intermediate", *store.filter.Difficulty)
}

func TestLoadHighscoresError(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, &fakeStore{err: assert.AnError})

	msg := m.loadHighscores()()
	require.IsType(t, errMsg{}, msg)
	m, _ = send(t, m, msg)
	assert.ErrorIs(t, m.err, assert.AnError)
}

func TestLoadHighscoresWithoutStore(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	assert.Nil(t, m.loadHighscores())
}

func TestSessionClosed(t *testing.T) {
	t.Parallel()
	m, s := newTestModel(t, nil)
	s.Close()

	msg := waitForUpdate(m.updates)()
	if _, ok := msg.(updateMsg); ok {
		msg = waitForUpdate(m.updates)()
	}
	require.IsType(t, closedMsg{}, msg)

	m, cmd := send(t, m, msg)
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
}
