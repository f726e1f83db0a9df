package mines

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Expert
)

var Difficulties = []Difficulty{Beginner, Intermediate, Expert}

type Params struct {
	Rows, Cols, MineCount int
}

func (p Params) Unpack() (rows, cols, mineCount int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p Params) Size() int {
	return p.Rows * p.Cols
}

func (d Difficulty) Params() Params {
	switch d {
	case Intermediate:
		return Params{Rows: 16, Cols: 16, MineCount: 40}
	case Expert:
		return Params{Rows: 16, Cols: 30, MineCount: 99}
	default:
		return Params{Rows: 9, Cols: 9, MineCount: 10}
	}
}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Intermediate:
		return "intermediate"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "b":
		return Beginner, nil
	case "intermediate", "i":
		return Intermediate, nil
	case "expert", "e":
		return Expert, nil
	}
	return Beginner, fmt.Errorf(
		"difficulty must be one of 'beginner', 'intermediate', 'expert' (got %q)", s,
	)
}

// [Difficulty] implements [encoding.TextMarshaler]
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// [Difficulty] implements [encoding.TextUnmarshaler]
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
