// Package gesture turns raw pointer input into discrete board actions.
//
// Chording can be started several ways (middle button, double click, or
// pressing left and right together) and may be ended by releasing any of the
// buttons involved. The Recognizer collapses each such gesture into exactly
// one BeginChord followed by exactly one EndChord or CancelChord, so the game
// only ever sees plain cell operations.
package gesture

import (
	"fmt"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

type Button int

const (
	Left Button = iota
	Right
	Middle
	buttonCount
)

func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	case Middle:
		return "middle"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

func ParseButton(s string) (Button, error) {
	switch s {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	case "m", "middle":
		return Middle, nil
	}
	return Left, fmt.Errorf("button must be one of 'l', 'r', 'm' (got %q)", s)
}

// Target describes the cell under the pointer.
type Target int

const (
	Covered  Target = iota // hidden, flagged or question-marked
	Numbered               // revealed number
	Open                   // any other revealed cell
)

// TargetOf classifies a cell for the recognizer.
func TargetOf(c mines.Cell) Target {
	switch {
	case c.State.Covered():
		return Covered
	case c.Content.IsNumber():
		return Numbered
	default:
		return Open
	}
}

type Kind int

const (
	Reveal Kind = iota
	Flag
	BeginChord
	EndChord
	CancelChord
)

func (k Kind) String() string {
	switch k {
	case Reveal:
		return "reveal"
	case Flag:
		return "flag"
	case BeginChord:
		return "begin_chord"
	case EndChord:
		return "end_chord"
	case CancelChord:
		return "cancel_chord"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Event struct {
	Kind Kind
	At   mines.Point
}

type Recognizer struct {
	down     [buttonCount]bool
	chording bool
	target   mines.Point
}

// Chording returns the cell a chord is being held on, if any.
func (r *Recognizer) Chording() (mines.Point, bool) {
	return r.target, r.chording
}

func (r *Recognizer) Press(b Button, at mines.Point, target Target, clicks int) []Event {
	r.down[b] = true

	switch target {
	case Numbered:
		if r.chording {
			return nil
		}
		if b == Middle ||
			(b == Left && clicks >= 2) ||
			(b == Left && r.down[Right]) ||
			(b == Right && r.down[Left]) {
			r.chording, r.target = true, at
			return []Event{{Kind: BeginChord, At: at}}
		}
	case Covered:
		switch b {
		case Left:
			return []Event{{Kind: Reveal, At: at}}
		case Right:
			return []Event{{Kind: Flag, At: at}}
		}
	}
	return nil
}

func (r *Recognizer) Release(b Button, at mines.Point) []Event {
	r.down[b] = false

	if !r.chording {
		return nil
	}
	target := r.target
	r.chording, r.target = false, mines.Point{}
	if at == target {
		return []Event{{Kind: EndChord, At: at}}
	}
	return []Event{{Kind: CancelChord, At: target}}
}

// Reset forgets held buttons and any chord in progress, e.g. after the
// pointer leaves the board.
func (r *Recognizer) Reset() []Event {
	var events []Event
	if r.chording {
		events = append(events, Event{Kind: CancelChord, At: r.target})
	}
	*r = Recognizer{}
	return events
}

const DoubleClickInterval = 400 * time.Millisecond

// ClickCounter derives click counts for input sources that do not report
// them: consecutive presses on the same cell within DoubleClickInterval
// count up.
type ClickCounter struct {
	at     mines.Point
	last   time.Time
	clicks int
}

func (c *ClickCounter) Count(at mines.Point, now time.Time) int {
	if c.clicks > 0 && at == c.at && now.Sub(c.last) <= DoubleClickInterval {
		c.clicks++
	} else {
		c.clicks = 1
	}
	c.at, c.last = at, now
	return c.clicks
}
