package mines

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

// MaxElapsed caps the elapsed-seconds counter, as on a three digit display.
const MaxElapsed = 999

type Status int

const (
	NotStarted Status = iota
	Playing
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Over reports whether the game reached a terminal status.
func (s Status) Over() bool {
	return s == Won || s == Lost
}

// Game is a single minesweeper board with its play state. It is not safe for
// concurrent use; whoever owns a Game serializes calls to it.
type Game struct {
	Params
	cells       []Cell
	status      Status
	flagsPlaced int
	startedAt   time.Time
	elapsed     int
	rnd         *rand.Rand
}

// New returns a game in the NotStarted status. Mines are placed by the first
// call to Reveal. A nil r is replaced with a freshly seeded generator.
func New(d Difficulty, r *rand.Rand) *Game {
	if r == nil {
		r = NewRand()
	}
	params := d.Params()
	return &Game{
		Params: params,
		cells:  make([]Cell, params.Size()),
		status: NotStarted,
		rnd:    r,
	}
}

// Reset discards all state and starts over with difficulty d. The random
// generator is carried over.
func (g *Game) Reset(d Difficulty) {
	*g = *New(d, g.rnd)
}

func (g *Game) Status() Status { return g.status }
func (g *Game) FlagsPlaced() int { return g.flagsPlaced }
func (g *Game) Elapsed() int { return g.elapsed }
func (g *Game) StartedAt() time.Time { return g.startedAt }
func (g *Game) MinesLeft() int { return g.MineCount - g.flagsPlaced }
func (g *Game) Cell(row, col int) Cell { return g.cells[g.index(row, col)] }

func (g *Game) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// panics [*OutOfBoundsError]
func (g *Game) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(&OutOfBoundsError{Row: row, Col: col, Rows: g.Rows, Cols: g.Cols})
	}
	return row*g.Cols + col
}

func (g *Game) point(i int) Point {
	return Point{Row: i / g.Cols, Col: i % g.Cols}
}

// Neighbors returns the in-bounds cells of the 3x3 block around (row, col),
// excluding the center.
func (g *Game) Neighbors(row, col int) []Point {
	g.index(row, col)
	neighbors := make([]Point, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if r, c := row+dr, col+dc; g.InBounds(r, c) {
				neighbors = append(neighbors, Point{Row: r, Col: c})
			}
		}
	}
	return neighbors
}

func (g *Game) Reveal(row, col int) {
	if g.status.Over() {
		return
	}
	i := g.index(row, col)

	if g.status == NotStarted {
		g.status = Playing
		g.startedAt = time.Now()
		g.placeMines(row, col)
	}

	cell := &g.cells[i]
	if cell.State == Flagged || cell.State == Revealed {
		return
	}
	cell.State = Revealed

	switch {
	case cell.Content.IsMine():
		g.status = Lost
		cell.Exploded = true
		g.revealAllMines()
	case cell.Content == Empty:
		g.floodFill(i)
		g.checkWin()
	default:
		g.checkWin()
	}
}

// floodFill uncovers the region of empty cells connected to start together
// with its numbered border. start must already be revealed.
func (g *Game) floodFill(start int) {
	var todo deque.Deque[int]
	todo.PushBack(start)
	for todo.Len() > 0 {
		p := g.point(todo.PopFront())
		for _, n := range g.Neighbors(p.Row, p.Col) {
			j := n.Row*g.Cols + n.Col
			if g.cells[j].State != Hidden {
				continue
			}
			g.cells[j].State = Revealed
			if g.cells[j].Content == Empty {
				todo.PushBack(j)
			}
		}
	}
}

// ToggleFlag cycles Hidden -> Flagged -> QuestionMark -> Hidden. Flagging is
// allowed before the first reveal and does not start the game.
func (g *Game) ToggleFlag(row, col int) {
	if g.status.Over() {
		return
	}
	cell := &g.cells[g.index(row, col)]
	switch cell.State {
	case Hidden:
		cell.State = Flagged
		g.flagsPlaced++
	case Flagged:
		cell.State = QuestionMark
		g.flagsPlaced--
	case QuestionMark:
		cell.State = Hidden
	}
}

// Chord reveals every Hidden or QuestionMark neighbor of a revealed number
// when exactly that many neighbors are flagged. Flags are not checked for
// correctness, so a misplaced flag can still detonate a mine. Chord reports
// whether it fired.
func (g *Game) Chord(row, col int) bool {
	if g.status != Playing {
		return false
	}
	cell := g.cells[g.index(row, col)]
	if cell.State != Revealed || !cell.Content.IsNumber() {
		return false
	}

	neighbors := g.Neighbors(row, col)
	flags := 0
	for _, n := range neighbors {
		if g.Cell(n.Row, n.Col).State == Flagged {
			flags++
		}
	}
	if flags != cell.Content.Count() {
		return false
	}

	for _, n := range neighbors {
		if s := g.Cell(n.Row, n.Col).State; s == Hidden || s == QuestionMark {
			g.Reveal(n.Row, n.Col)
		}
	}
	return true
}

// Tick advances the elapsed-seconds counter while the game is in progress.
// It is driven by an external clock and reports whether the counter changed.
func (g *Game) Tick() bool {
	if g.status != Playing || g.elapsed >= MaxElapsed {
		return false
	}
	g.elapsed++
	return true
}

func (g *Game) revealAllMines() {
	for i := range g.cells {
		cell := &g.cells[i]
		switch {
		case cell.Content.IsMine() && cell.State != Flagged:
			cell.State = Revealed
		case !cell.Content.IsMine() && cell.State == Flagged:
			cell.WrongFlag = true
			cell.State = Revealed
		}
	}
}

func (g *Game) checkWin() {
	revealed := 0
	for _, cell := range g.cells {
		if cell.State == Revealed {
			revealed++
		}
	}
	if revealed != g.Size()-g.MineCount {
		return
	}
	g.status = Won
	for i := range g.cells {
		if g.cells[i].Content.IsMine() {
			g.cells[i].State = Flagged
		}
	}
	// every mine is flagged now
	g.flagsPlaced = g.MineCount
}
