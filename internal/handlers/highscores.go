package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

var ErrNoStore = errors.New("highscores are unavailable")

type HighscoresDTO struct {
	Difficulty string `schema:"difficulty"`
	Player     string `schema:"player"`
	Limit      int    `schema:"limit"`
}

func (dto HighscoresDTO) Filter() (repository.HighscoreFilter, error) {
	filter := repository.HighscoreFilter{Limit: dto.Limit}
	if dto.Difficulty != "" {
		d, err := mines.ParseDifficulty(dto.Difficulty)
		if err != nil {
			return filter, err
		}
		difficulty := d.String()
		filter.Difficulty = &difficulty
	}
	if dto.Player != "" {
		player := dto.Player
		filter.Player = &player
	}
	return filter, nil
}

type HighscoreHandler struct {
	logger *slog.Logger
	store  repository.Store
}

// NewHighscoreHandler accepts a nil store, in which case every request
// fails with 503.
func NewHighscoreHandler(logger *slog.Logger, store repository.Store) *HighscoreHandler {
	return &HighscoreHandler{logger: logger, store: store}
}

func (h HighscoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		sendErrorOrLog(w, h.logger, http.StatusServiceUnavailable, ErrNoStore)
		return
	}

	var dto HighscoresDTO
	if err := decoder.Decode(&dto, r.URL.Query()); err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}
	filter, err := dto.Filter()
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	highscores, err := h.store.GetHighscores(r.Context(), filter)
	if err != nil {
		h.logger.Error(
			"failed to fetch highscores", slog.Any("error", err), slog.Any("filter", dto),
		)
		sendErrorOrLog(w, h.logger, http.StatusInternalServerError, errors.New("failed to fetch highscores"))
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}

	sendJSONOrLog(w, h.logger, http.StatusOK, highscores)
}
