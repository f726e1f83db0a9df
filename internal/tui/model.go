// Package tui is the terminal front end: a bubbletea program driving one
// local game session with the keyboard or the mouse.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/gesture"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/session"
)

const highscoreCount = 5

// updateMsg signals that the session changed.
type updateMsg struct{}

// closedMsg signals that the session is gone.
type closedMsg struct{}

type highscoresMsg []repository.Highscore

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type Model struct {
	session    *session.Session
	updates    <-chan struct{}
	store      repository.Store
	log        *logrus.Logger
	view       session.View
	cursor     mines.Point
	clicks     gesture.ClickCounter
	held       map[gesture.Button]bool
	highscores []repository.Highscore
	keys       KeyMap
	help       help.Model
	err        error
	quitting   bool
}

// NewModel drives s. store may be nil, in which case no highscores are
// shown. The model subscribes to s for its whole lifetime.
func NewModel(s *session.Session, store repository.Store, log *logrus.Logger) Model {
	updates, _ := s.Subscribe()
	view := s.Snapshot()
	return Model{
		session: s,
		updates: updates,
		store:   store,
		log:     log,
		view:    view,
		cursor:  mines.Point{Row: view.Rows / 2, Col: view.Cols / 2},
		held:    make(map[gesture.Button]bool),
		keys:    Keys,
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), m.loadHighscores())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case updateMsg:
		cmd := m.refresh()
		return m, tea.Batch(waitForUpdate(m.updates), cmd)

	case highscoresMsg:
		m.highscores = msg
		return m, nil

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor.Row--
	case key.Matches(msg, m.keys.Down):
		m.cursor.Row++
	case key.Matches(msg, m.keys.Left):
		m.cursor.Col--
	case key.Matches(msg, m.keys.Right):
		m.cursor.Col++
	case key.Matches(msg, m.keys.Reveal):
		err = m.session.Reveal(m.cursor.Row, m.cursor.Col)
	case key.Matches(msg, m.keys.Flag):
		err = m.session.ToggleFlag(m.cursor.Row, m.cursor.Col)
	case key.Matches(msg, m.keys.Chord):
		_, err = m.session.Chord(m.cursor.Row, m.cursor.Col)
	case key.Matches(msg, m.keys.NewGame):
		err = m.session.NewGame(m.view.Difficulty)
	case key.Matches(msg, m.keys.Beginner):
		err = m.session.NewGame(mines.Beginner)
	case key.Matches(msg, m.keys.Intermediate):
		err = m.session.NewGame(mines.Intermediate)
	case key.Matches(msg, m.keys.Expert):
		err = m.session.NewGame(mines.Expert)
	}
	m.err = err
	cmd := m.refresh()
	return m, cmd
}

// cellAt maps terminal coordinates to a board cell. The result may lie
// outside the board.
func cellAt(x, y int) mines.Point {
	col := x / cellWidth
	if x < 0 {
		col = -1
	}
	return mines.Point{Row: y - boardTop, Col: col}
}

func buttonOf(b tea.MouseButton) (gesture.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return gesture.Left, true
	case tea.MouseButtonRight:
		return gesture.Right, true
	case tea.MouseButtonMiddle:
		return gesture.Middle, true
	}
	return 0, false
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	at := cellAt(msg.X, msg.Y)
	inside := at.Row >= 0 && at.Row < m.view.Rows && at.Col >= 0 && at.Col < m.view.Cols

	var err error
	switch msg.Action {
	case tea.MouseActionPress:
		b, ok := buttonOf(msg.Button)
		if !ok || !inside {
			return m, nil
		}
		m.held[b] = true
		m.cursor = at
		err = m.session.Press(b, at.Row, at.Col, m.clicks.Count(at, time.Now()))

	case tea.MouseActionRelease:
		// some terminals do not report which button went up
		buttons := make([]gesture.Button, 0, len(m.held))
		if b, ok := buttonOf(msg.Button); ok {
			buttons = append(buttons, b)
		} else {
			for b := range m.held {
				buttons = append(buttons, b)
			}
		}
		for _, b := range buttons {
			delete(m.held, b)
			if err = m.session.Release(b, at.Row, at.Col); err != nil {
				break
			}
		}
	}
	m.err = err
	cmd := m.refresh()
	return m, cmd
}

// refresh picks up the session's current view. Highscores are reloaded when
// the difficulty changes or a game is won.
func (m *Model) refresh() tea.Cmd {
	prev := m.view
	m.view = m.session.Snapshot()
	m.cursor = clamp(m.cursor, m.view)
	won := prev.Status != mines.Won && m.view.Status == mines.Won
	if won || prev.Difficulty != m.view.Difficulty {
		return m.loadHighscores()
	}
	return nil
}

func clamp(p mines.Point, v session.View) mines.Point {
	p.Row = max(0, min(p.Row, v.Rows-1))
	p.Col = max(0, min(p.Col, v.Cols-1))
	return p
}

func waitForUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return closedMsg{}
		}
		return updateMsg{}
	}
}

func (m Model) loadHighscores() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, log := m.store, m.log
	difficulty := m.view.Difficulty.String()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		highscores, err := store.GetHighscores(ctx, repository.HighscoreFilter{
			Difficulty: &difficulty,
			Limit:      highscoreCount,
		})
		if err != nil {
			if log != nil {
				log.WithError(err).Error("unable to load highscores")
			}
			return errMsg{err}
		}
		return highscoresMsg(highscores)
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return Render(m.view, m.cursor, m.highscores, m.err) + "\n" + m.help.View(m.keys)
}
