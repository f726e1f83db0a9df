package mines

import (
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
)

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// candidates lists every cell index except safe, in order.
func (g *Game) candidates(safe int) []int {
	indices := make([]int, 0, g.Size()-1)
	for i := range g.Size() {
		if i != safe {
			indices = append(indices, i)
		}
	}
	return indices
}

// placeMines draws a uniform random MineCount-subset of all cells except
// (safeRow, safeCol). The safe cell is left out of the draw rather than
// regenerating until it is clear, which would skew the odds around it.
func (g *Game) placeMines(safeRow, safeCol int) {
	safe := g.index(safeRow, safeCol)
	indices := g.candidates(safe)
	g.rnd.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	g.layMines(indices[:g.MineCount])

	Log.Debug("mines placed",
		slog.Any("safe", Point{Row: safeRow, Col: safeCol}),
		slog.Int("rows", g.Rows),
		slog.Int("cols", g.Cols),
		slog.Int("mines", g.MineCount),
	)
}

// layMines marks the given indices as mines and numbers the rest of the
// board. Everything here is a pure function of the mine positions.
func (g *Game) layMines(mines []int) {
	for _, i := range mines {
		g.cells[i].Content = Mine
	}
	for i := range g.cells {
		if g.cells[i].Content.IsMine() {
			continue
		}
		p := g.point(i)
		count := 0
		for _, n := range g.Neighbors(p.Row, p.Col) {
			if g.cells[n.Row*g.Cols+n.Col].Content.IsMine() {
				count++
			}
		}
		if count > 0 {
			g.cells[i].Content = Number(count)
		} else {
			g.cells[i].Content = Empty
		}
	}
}
