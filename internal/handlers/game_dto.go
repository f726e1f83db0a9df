package handlers

import (
	"fmt"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type NewGameDTO struct {
	Difficulty mines.Difficulty `schema:"difficulty"`
	Player     string           `schema:"player"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type Move uint8

const (
	Open Move = iota + 1
	Flag
	Chord
)

var ErrBadMove = fmt.Errorf("move must be one of 'open', 'flag', 'chord'")

func ParseMove(s string) (Move, error) {
	switch strings.ToLower(s) {
	case "open", "o":
		return Open, nil
	case "flag", "f":
		return Flag, nil
	case "chord", "c":
		return Chord, nil
	}
	return 0, ErrBadMove
}

type MoveDTO struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row,required"`
	Col  int    `schema:"col,required"`
}

func ParseMoveDTO(src map[string][]string) (MoveDTO, Move, error) {
	var dto MoveDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return dto, 0, err
	}
	move, err := ParseMove(dto.Move)
	return dto, move, err
}

type ResetDTO struct {
	Difficulty string `schema:"difficulty"`
}

// MoveResultDTO is the game after a move. Chorded is only set for chords.
type MoveResultDTO struct {
	session.View
	Chorded *bool `json:"chorded,omitempty"`
}
