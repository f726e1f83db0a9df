package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/gesture"
	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	ErrOutOfBounds = errors.New("cell is outside the board")
	ErrNotFound    = errors.New("session not found")
	ErrClosed      = errors.New("session is closed")
)

const (
	DefaultTickInterval  = time.Second
	DefaultFlashDuration = 150 * time.Millisecond
)

type Options struct {
	Logger        *slog.Logger
	TickInterval  time.Duration
	FlashDuration time.Duration
	// OnWin is called once per won game, outside the session lock.
	OnWin func(Result)
	// Rand seeds mine placement. It must not be shared between sessions.
	Rand *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.FlashDuration <= 0 {
		o.FlashDuration = DefaultFlashDuration
	}
	if o.Rand == nil {
		o.Rand = mines.NewRand()
	}
	return o
}

type Result struct {
	SessionID  uuid.UUID
	Player     string
	Difficulty mines.Difficulty
	Seconds    int
	Duration   time.Duration
	FinishedAt time.Time
}

// Session owns one game and everything around it that is not game logic:
// the clock, chord press state, failed-chord flashes and change
// notifications. It is safe for concurrent use.
type Session struct {
	ID     uuid.UUID
	Player string
	opts   Options
	logger *slog.Logger

	mu         sync.Mutex
	game       *mines.Game
	difficulty mines.Difficulty
	status     mines.Status
	gestures   gesture.Recognizer
	pressed    *mines.Point
	flashing   []mines.Point
	flashSeq   int
	flashTimer *time.Timer
	stopClock  context.CancelFunc
	lastActive time.Time
	closed     bool
	subs       map[chan struct{}]struct{}
}

func New(id uuid.UUID, d mines.Difficulty, player string, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		ID:         id,
		Player:     player,
		opts:       opts,
		logger:     opts.Logger.With(slog.String("session", id.String())),
		subs:       make(map[chan struct{}]struct{}),
		lastActive: time.Now(),
	}
	s.mu.Lock()
	s.newGame(d)
	s.mu.Unlock()
	return s
}

// NewGame throws the current game away and starts a fresh one. The old
// game's clock stops with it.
func (s *Session) NewGame(d mines.Difficulty) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.newGame(d)
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Session) newGame(d mines.Difficulty) {
	if s.stopClock != nil {
		s.stopClock()
	}
	s.stopFlash()
	s.game = mines.New(d, s.opts.Rand)
	s.difficulty = d
	s.status = s.game.Status()
	s.gestures.Reset()
	s.pressed = nil
	s.lastActive = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	s.stopClock = cancel
	go s.runClock(ctx, s.game)

	s.logger.Debug("new game", slog.String("difficulty", d.String()))
}

func (s *Session) Difficulty() mines.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) Reveal(row, col int) error {
	return s.mutate(row, col, func(g *mines.Game) {
		g.Reveal(row, col)
	})
}

func (s *Session) ToggleFlag(row, col int) error {
	return s.mutate(row, col, func(g *mines.Game) {
		g.ToggleFlag(row, col)
	})
}

// Chord chords the cell and flashes its covered neighbors when the chord
// does not fire.
func (s *Session) Chord(row, col int) (chorded bool, err error) {
	err = s.mutate(row, col, func(g *mines.Game) {
		chorded = s.chord(mines.Point{Row: row, Col: col})
	})
	return
}

// Press feeds a button press on a cell to the gesture recognizer.
func (s *Session) Press(b gesture.Button, row, col, clicks int) error {
	return s.mutate(row, col, func(g *mines.Game) {
		target := gesture.TargetOf(g.Cell(row, col))
		at := mines.Point{Row: row, Col: col}
		s.apply(s.gestures.Press(b, at, target, clicks))
	})
}

// Release feeds a button release to the gesture recognizer. The point may
// lie outside the board, which cancels a chord in progress.
func (s *Session) Release(b gesture.Button, row, col int) error {
	return s.update(func(g *mines.Game) {
		s.apply(s.gestures.Release(b, mines.Point{Row: row, Col: col}))
	})
}

// CancelGesture drops held buttons, e.g. when the pointer leaves the board.
func (s *Session) CancelGesture() error {
	return s.update(func(g *mines.Game) {
		s.apply(s.gestures.Reset())
	})
}

func (s *Session) apply(events []gesture.Event) {
	for _, e := range events {
		switch e.Kind {
		case gesture.Reveal:
			s.game.Reveal(e.At.Row, e.At.Col)
		case gesture.Flag:
			s.game.ToggleFlag(e.At.Row, e.At.Col)
		case gesture.BeginChord:
			at := e.At
			s.pressed = &at
		case gesture.EndChord:
			s.pressed = nil
			s.chord(e.At)
		case gesture.CancelChord:
			s.pressed = nil
		}
	}
}

// must hold s.mu
func (s *Session) chord(at mines.Point) bool {
	if s.game.Chord(at.Row, at.Col) {
		return true
	}
	if s.game.Status() == mines.Playing {
		s.flash(at)
	}
	return false
}

// must hold s.mu
func (s *Session) flash(at mines.Point) {
	s.stopFlash()
	s.flashing = s.coveredNeighbors(at)
	if len(s.flashing) == 0 {
		return
	}
	seq := s.flashSeq
	s.flashTimer = time.AfterFunc(s.opts.FlashDuration, func() {
		s.mu.Lock()
		if s.flashSeq != seq {
			s.mu.Unlock()
			return
		}
		s.flashing = nil
		s.mu.Unlock()
		s.notify()
	})
}

// must hold s.mu
func (s *Session) stopFlash() {
	s.flashSeq++
	s.flashing = nil
	if s.flashTimer != nil {
		s.flashTimer.Stop()
		s.flashTimer = nil
	}
}

// must hold s.mu
func (s *Session) coveredNeighbors(at mines.Point) []mines.Point {
	var points []mines.Point
	for _, n := range s.game.Neighbors(at.Row, at.Col) {
		if st := s.game.Cell(n.Row, n.Col).State; st == mines.Hidden || st == mines.QuestionMark {
			points = append(points, n)
		}
	}
	return points
}

func (s *Session) mutate(row, col int, f func(g *mines.Game)) error {
	return s.run(func(g *mines.Game) error {
		if !g.InBounds(row, col) {
			return ErrOutOfBounds
		}
		f(g)
		return nil
	})
}

func (s *Session) update(f func(g *mines.Game)) error {
	return s.run(func(g *mines.Game) error {
		f(g)
		return nil
	})
}

func (s *Session) run(f func(g *mines.Game) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := f(s.game); err != nil {
		s.mu.Unlock()
		return err
	}
	result, won := s.observe()
	s.mu.Unlock()

	if won && s.opts.OnWin != nil {
		s.opts.OnWin(result)
	}
	s.notify()
	return nil
}

// observe records activity and reports a transition into Won.
// must hold s.mu
func (s *Session) observe() (Result, bool) {
	s.lastActive = time.Now()
	prev := s.status
	s.status = s.game.Status()
	if prev == s.status || !s.status.Over() {
		return Result{}, false
	}

	s.pressed = nil
	s.stopFlash()
	if s.status == mines.Lost {
		s.logger.Debug("game lost", slog.Int("elapsed", s.game.Elapsed()))
		return Result{}, false
	}

	result := Result{
		SessionID:  s.ID,
		Player:     s.Player,
		Difficulty: s.difficulty,
		Seconds:    s.game.Elapsed(),
		Duration:   time.Since(s.game.StartedAt()),
		FinishedAt: time.Now().UTC(),
	}
	s.logger.Info("game won",
		slog.String("difficulty", s.difficulty.String()),
		slog.Int("seconds", result.Seconds),
	)
	return result, true
}

func (s *Session) runClock(ctx context.Context, game *mines.Game) {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.tick(game) {
				return
			}
		}
	}
}

// tick advances game's clock. It reports false once game is no longer the
// session's current game, which ends the clock.
func (s *Session) tick(game *mines.Game) bool {
	s.mu.Lock()
	if s.closed || s.game != game {
		s.mu.Unlock()
		return false
	}
	changed := game.Tick()
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return true
}

// Subscribe returns a channel that receives a value whenever the session
// changes. Notifications coalesce; readers call Snapshot for the state. The
// channel is closed when the session closes.
func (s *Session) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopClock()
	s.stopFlash()
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.logger.Debug("session closed")
}
