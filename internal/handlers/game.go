package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type GameHandler struct {
	logger   *slog.Logger
	sessions *session.Registry
	ws       *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	sessions *session.Registry,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		ws:       ws,
	}
}

// session looks up the {id} path value, replying with an error if there is
// no such live session.
func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, fmt.Errorf("invalid game id"))
		return nil, false
	}
	s, err := g.sessions.Get(id)
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	return s, true
}

func (g GameHandler) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrOutOfBounds):
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
	case errors.Is(err, session.ErrClosed):
		sendErrorOrLog(w, g.logger, http.StatusNotFound, session.ErrNotFound)
	default:
		g.logger.Error("session operation failed", slog.Any("error", err))
		sendErrorOrLog(w, g.logger, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s := g.sessions.Create(dto.Difficulty, dto.Player)
	g.logger.Debug(
		"created game session",
		slog.String("id", s.ID.String()),
		slog.String("difficulty", dto.Difficulty.String()),
	)

	sendJSONOrLog(w, g.logger, http.StatusCreated, s.Snapshot())
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, s.Snapshot())
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	dto, move, err := ParseMoveDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.session(w, r)
	if !ok {
		return
	}

	var result MoveResultDTO
	switch move {
	case Open:
		err = s.Reveal(dto.Row, dto.Col)
	case Flag:
		err = s.ToggleFlag(dto.Row, dto.Col)
	case Chord:
		var chorded bool
		chorded, err = s.Chord(dto.Row, dto.Col)
		result.Chorded = &chorded
	}
	if err != nil {
		g.sessionError(w, err)
		return
	}

	result.View = s.Snapshot()
	sendJSONOrLog(w, g.logger, http.StatusOK, result)
}

// Reset starts a new game in the same session, keeping its difficulty
// unless another one is given.
func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var dto ResetDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	s, ok := g.session(w, r)
	if !ok {
		return
	}

	d := s.Difficulty()
	if dto.Difficulty != "" {
		parsed, err := mines.ParseDifficulty(dto.Difficulty)
		if err != nil {
			sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		d = parsed
	}

	if err := s.NewGame(d); err != nil {
		g.sessionError(w, err)
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, s.Snapshot())
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	if err := g.sessions.Remove(s.ID); err != nil {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
