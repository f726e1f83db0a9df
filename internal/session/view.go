package session

import (
	"slices"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/mines"
)

// CellView is what a player may see of a cell. Content is zero for cells
// that are still covered.
type CellView struct {
	State     mines.State   `json:"state"`
	Content   mines.Content `json:"content"`
	Exploded  bool          `json:"exploded,omitempty"`
	WrongFlag bool          `json:"wrong_flag,omitempty"`
}

type View struct {
	ID          uuid.UUID        `json:"id"`
	Player      string           `json:"player,omitempty"`
	Difficulty  mines.Difficulty `json:"difficulty"`
	Rows        int              `json:"rows"`
	Cols        int              `json:"cols"`
	Mines       int              `json:"mines"`
	Status      mines.Status     `json:"status"`
	FlagsPlaced int              `json:"flags_placed"`
	MinesLeft   int              `json:"mines_left"`
	Elapsed     int              `json:"elapsed"`
	Cells       [][]CellView     `json:"cells"`
	// Pressed lists covered cells drawn sunken: the neighbors of a held
	// chord or of a chord that just failed.
	Pressed []mines.Point `json:"pressed,omitempty"`
}

func (v View) Cell(p mines.Point) CellView {
	return v.Cells[p.Row][p.Col]
}

func (v View) IsPressed(p mines.Point) bool {
	return slices.Contains(v.Pressed, p)
}

func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	v := View{
		ID:          s.ID,
		Player:      s.Player,
		Difficulty:  s.difficulty,
		Rows:        g.Rows,
		Cols:        g.Cols,
		Mines:       g.MineCount,
		Status:      g.Status(),
		FlagsPlaced: g.FlagsPlaced(),
		MinesLeft:   g.MinesLeft(),
		Elapsed:     g.Elapsed(),
		Cells:       make([][]CellView, g.Rows),
	}
	for row := range g.Rows {
		v.Cells[row] = make([]CellView, g.Cols)
		for col := range g.Cols {
			c := g.Cell(row, col)
			cv := CellView{
				State:     c.State,
				Exploded:  c.Exploded,
				WrongFlag: c.WrongFlag,
			}
			if c.State == mines.Revealed {
				cv.Content = c.Content
			}
			v.Cells[row][col] = cv
		}
	}

	if s.pressed != nil {
		v.Pressed = s.coveredNeighbors(*s.pressed)
	}
	for _, p := range s.flashing {
		if !slices.Contains(v.Pressed, p) {
			v.Pressed = append(v.Pressed, p)
		}
	}
	return v
}
