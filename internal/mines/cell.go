package mines

import (
	"fmt"
	"strconv"
)

// Content is what a cell holds once the board is generated: Mine (-1),
// Empty (0) or the number of neighboring mines (1..8).
type Content int8

const (
	Mine  Content = -1
	Empty Content = 0
)

func Number(n int) Content {
	if n < 1 || n > 8 {
		panic(fmt.Sprintf("mines: number content out of range: %d", n))
	}
	return Content(n)
}

func (c Content) IsMine() bool {
	return c == Mine
}

func (c Content) IsNumber() bool {
	return c > 0
}

// Count returns the neighboring mine count, 0 for Empty and Mine.
func (c Content) Count() int {
	if c < 0 {
		return 0
	}
	return int(c)
}

func (c Content) String() string {
	switch {
	case c == Mine:
		return "*"
	case c == Empty:
		return "."
	default:
		return strconv.Itoa(int(c))
	}
}

type State int8

const (
	Hidden State = iota
	Revealed
	Flagged
	QuestionMark
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	case QuestionMark:
		return "question"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Covered reports whether the player still has to uncover the cell.
func (s State) Covered() bool {
	return s != Revealed
}

type Cell struct {
	Content   Content
	State     State
	Exploded  bool // the mine the player detonated
	WrongFlag bool // flagged non-mine exposed on loss
}

type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("[%d:%d]", p.Row, p.Col)
}
