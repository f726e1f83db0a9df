package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
	"github.com/vancomm/minesweeper/internal/session"
)

// Board layout: a header line and a blank line above the grid, two columns
// per cell and no border, so mouse coordinates map straight to cells.
const (
	cellWidth = 2
	boardTop  = 2
)

var (
	numberColors = [...]lipgloss.Color{
		1: lipgloss.Color("#4488ff"),
		2: lipgloss.Color("#00aa44"),
		3: lipgloss.Color("#ff4444"),
		4: lipgloss.Color("#2244aa"),
		5: lipgloss.Color("#aa2222"),
		6: lipgloss.Color("#00aaaa"),
		7: lipgloss.Color("#cccccc"),
		8: lipgloss.Color("#888888"),
	}

	hiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	mineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	explodedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff0000")).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff2222")).
			Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444"))
)

// Counter formats a three-digit LED display value.
func Counter(n int) string {
	return fmt.Sprintf("%03d", max(-99, min(n, 999)))
}

func Face(v session.View) string {
	switch {
	case v.Status == mines.Won:
		return "B)"
	case v.Status == mines.Lost:
		return "X("
	case len(v.Pressed) > 0:
		return ":O"
	default:
		return ":)"
	}
}

func RenderHeader(v session.View) string {
	return counterStyle.Render(Counter(v.MinesLeft)) +
		"  " + Face(v) + "  " +
		counterStyle.Render(Counter(v.Elapsed))
}

func renderCell(c session.CellView, pressed bool) string {
	switch c.State {
	case mines.Hidden:
		if pressed {
			return emptyStyle.Render(".")
		}
		return hiddenStyle.Render("#")
	case mines.QuestionMark:
		if pressed {
			return emptyStyle.Render(".")
		}
		return hiddenStyle.Render("?")
	case mines.Flagged:
		return flagStyle.Render("F")
	}

	switch {
	case c.WrongFlag:
		return flagStyle.Render("x")
	case c.Exploded:
		return explodedStyle.Render("*")
	case c.Content.IsMine():
		return mineStyle.Render("*")
	case c.Content.IsNumber():
		return lipgloss.NewStyle().
			Foreground(numberColors[c.Content.Count()]).
			Bold(true).
			Render(c.Content.String())
	default:
		return emptyStyle.Render(".")
	}
}

func RenderBoard(v session.View, cursor mines.Point) string {
	var b strings.Builder
	for row := range v.Rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := range v.Cols {
			at := mines.Point{Row: row, Col: col}
			cell := renderCell(v.Cell(at), v.IsPressed(at))
			if at == cursor && !v.Status.Over() {
				cell = cursorStyle.Render(cell)
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", cellWidth-1))
		}
	}
	return b.String()
}

func renderStatus(v session.View, err error) string {
	switch {
	case err != nil:
		return errorStyle.Render(err.Error())
	case v.Status == mines.Won:
		return wonStyle.Render(fmt.Sprintf("cleared in %ds!", v.Elapsed))
	case v.Status == mines.Lost:
		return errorStyle.Render("boom. press n to play again")
	default:
		return fmt.Sprintf("%s %dx%d, %d mines", v.Difficulty, v.Cols, v.Rows, v.Mines)
	}
}

func RenderHighscores(difficulty mines.Difficulty, highscores []repository.Highscore) string {
	lines := []string{titleStyle.Render("best " + difficulty.String())}
	if len(highscores) == 0 {
		lines = append(lines, "no wins yet")
	}
	for i, h := range highscores {
		player := "anonymous"
		if h.Player != nil {
			player = *h.Player
		}
		lines = append(lines, fmt.Sprintf("%d. %-12s %3ds", i+1, player, h.Seconds))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// Render draws the whole screen. highscores may be nil when no store is
// configured.
func Render(v session.View, cursor mines.Point, highscores []repository.Highscore, err error) string {
	left := strings.Join([]string{
		RenderHeader(v),
		"",
		RenderBoard(v, cursor),
		"",
		renderStatus(v, err),
	}, "\n")
	if highscores == nil {
		return left
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		"    ",
		RenderHighscores(v.Difficulty, highscores),
	)
}
