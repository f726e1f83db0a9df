package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/gesture"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsNew     wsCommand = "n"
	wsPress   wsCommand = "p"
	wsRelease wsCommand = "u"
)

var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	name       wsCommand
	row, col   int
	button     gesture.Button
	clicks     int
	difficulty *mines.Difficulty
}

func parseRowCol(args []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("row must be an int")
		return
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("col must be an int")
		return
	}
	return
}

func parseCommand(line string) (cmd command, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return cmd, ErrUnknownCommand
	}
	cmd.name, parts = wsCommand(parts[0]), parts[1:]

	nargs := func(lo, hi int) error {
		if len(parts) < lo || len(parts) > hi {
			return fmt.Errorf("invalid number of arguments for %q", cmd.name)
		}
		return nil
	}

	switch cmd.name {
	case wsNoop:
		err = nargs(0, 0)
	case wsOpen, wsFlag, wsChord:
		if err = nargs(2, 2); err == nil {
			cmd.row, cmd.col, err = parseRowCol(parts)
		}
	case wsNew:
		if err = nargs(0, 1); err == nil && len(parts) == 1 {
			var d mines.Difficulty
			d, err = mines.ParseDifficulty(parts[0])
			cmd.difficulty = &d
		}
	case wsPress, wsRelease:
		maxArgs := 3
		if cmd.name == wsPress {
			maxArgs = 4
		}
		if err = nargs(3, maxArgs); err != nil {
			return
		}
		if cmd.button, err = gesture.ParseButton(parts[0]); err != nil {
			return
		}
		if cmd.row, cmd.col, err = parseRowCol(parts[1:3]); err != nil {
			return
		}
		cmd.clicks = 1
		if len(parts) == 4 {
			if cmd.clicks, err = strconv.Atoi(parts[3]); err != nil || cmd.clicks < 1 {
				err = fmt.Errorf("clicks must be a positive int")
			}
		}
	default:
		err = ErrUnknownCommand
	}
	return
}

func execute(s *session.Session, cmd command) error {
	switch cmd.name {
	case wsOpen:
		return s.Reveal(cmd.row, cmd.col)
	case wsFlag:
		return s.ToggleFlag(cmd.row, cmd.col)
	case wsChord:
		_, err := s.Chord(cmd.row, cmd.col)
		return err
	case wsNew:
		d := s.Difficulty()
		if cmd.difficulty != nil {
			d = *cmd.difficulty
		}
		return s.NewGame(d)
	case wsPress:
		return s.Press(cmd.button, cmd.row, cmd.col, cmd.clicks)
	case wsRelease:
		return s.Release(cmd.button, cmd.row, cmd.col)
	}
	return nil
}

// runBatch executes one message worth of newline-separated commands,
// stopping at the first bad one.
func runBatch(s *session.Session, message string) error {
	for _, line := range strings.Split(strings.TrimSpace(message), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
		if err := execute(s, cmd); err != nil {
			return fmt.Errorf("%q: %w", line, err)
		}
	}
	return nil
}

func (g GameHandler) readCommands(
	conn *websocket.Conn, s *session.Session, replies chan<- any, done <-chan struct{},
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}

		var reply any
		if err := runBatch(s, string(buf)); err != nil {
			if errors.Is(err, session.ErrClosed) {
				return err
			}
			reply = wrapError(err)
		} else {
			reply = s.Snapshot()
		}

		select {
		case replies <- reply:
		case <-done:
			return nil
		}
	}
}

// ConnectWS streams the game to the client, pushing a fresh view after every
// batch of commands and whenever the session changes on its own, e.g. a
// clock tick.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := g.logger.With(slog.String("session", s.ID.String()))
	logger.Debug("established WS connection")

	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	replies := make(chan any)
	readErr := make(chan error, 1)
	go func() { readErr <- g.readCommands(conn, s, replies, done) }()

	if err := conn.WriteJSON(s.Snapshot()); err != nil {
		logger.Warn("unable to write json", slog.Any("error", err))
		return
	}

	for {
		select {
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, session.ErrClosed) {
				logger.Warn("error in ws loop", slog.Any("error", err))
			}
			return
		case reply := <-replies:
			if err := conn.WriteJSON(reply); err != nil {
				logger.Warn("unable to write json", slog.Any("error", err))
				return
			}
		case _, ok := <-updates:
			if !ok {
				conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
				)
				return
			}
			if err := conn.WriteJSON(s.Snapshot()); err != nil {
				logger.Warn("unable to write json", slog.Any("error", err))
				return
			}
		}
	}
}
