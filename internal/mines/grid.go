package mines

import (
	"fmt"
	"strings"
)

// Glyph is the player's view of a single cell.
func (c Cell) Glyph() string {
	switch c.State {
	case Hidden:
		return "#"
	case Flagged:
		return "F"
	case QuestionMark:
		return "?"
	}
	switch {
	case c.WrongFlag:
		return "x"
	case c.Exploded:
		return "!"
	default:
		return c.Content.String()
	}
}

// [*Game] implements [fmt.Stringer]
func (g *Game) String() string {
	var b strings.Builder
	for row := range g.Rows {
		for col := range g.Cols {
			fmt.Fprint(&b, g.Cell(row, col).Glyph()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// Layout renders the generated contents regardless of cell state.
func (g *Game) Layout() string {
	var b strings.Builder
	for row := range g.Rows {
		for col := range g.Cols {
			fmt.Fprint(&b, g.Cell(row, col).Content.String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
