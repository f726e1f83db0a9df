package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	here  = mines.Point{Row: 2, Col: 3}
	there = mines.Point{Row: 5, Col: 5}
)

func TestCoveredCells(t *testing.T) {
	var r Recognizer

	assert.Equal(t, []Event{{Reveal, here}}, r.Press(Left, here, Covered, 1))
	assert.Nil(t, r.Release(Left, here))

	assert.Equal(t, []Event{{Flag, here}}, r.Press(Right, here, Covered, 1))
	assert.Nil(t, r.Release(Right, here))

	assert.Nil(t, r.Press(Middle, here, Covered, 1))
	assert.Nil(t, r.Release(Middle, here))
}

func TestOpenCellsDoNothing(t *testing.T) {
	var r Recognizer
	for _, b := range []Button{Left, Right, Middle} {
		assert.Nil(t, r.Press(b, here, Open, 2))
	}
	for _, b := range []Button{Left, Right, Middle} {
		assert.Nil(t, r.Release(b, here))
	}
}

func TestChordStarts(t *testing.T) {
	tests := []struct {
		name    string
		presses func(r *Recognizer) []Event
	}{
		{
			name: "middle button",
			presses: func(r *Recognizer) []Event {
				return r.Press(Middle, here, Numbered, 1)
			},
		},
		{
			name: "double click",
			presses: func(r *Recognizer) []Event {
				return r.Press(Left, here, Numbered, 2)
			},
		},
		{
			name: "left then right",
			presses: func(r *Recognizer) []Event {
				assert.Nil(t, r.Press(Left, here, Numbered, 1))
				return r.Press(Right, here, Numbered, 1)
			},
		},
		{
			name: "right then left",
			presses: func(r *Recognizer) []Event {
				assert.Nil(t, r.Press(Right, here, Numbered, 1))
				return r.Press(Left, here, Numbered, 1)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var r Recognizer
			assert.Equal(t, []Event{{BeginChord, here}}, test.presses(&r))

			at, ok := r.Chording()
			assert.True(t, ok)
			assert.Equal(t, here, at)
		})
	}
}

func TestSingleClickOnNumberDoesNotChord(t *testing.T) {
	var r Recognizer
	assert.Nil(t, r.Press(Left, here, Numbered, 1))
	assert.Nil(t, r.Release(Left, here))
	assert.Nil(t, r.Press(Right, here, Numbered, 1))
	assert.Nil(t, r.Release(Right, here))
	_, ok := r.Chording()
	assert.False(t, ok)
}

func TestChordEndsExactlyOnce(t *testing.T) {
	var r Recognizer
	r.Press(Left, here, Numbered, 1)
	r.Press(Right, here, Numbered, 1)

	assert.Equal(t, []Event{{EndChord, here}}, r.Release(Left, here))
	assert.Nil(t, r.Release(Right, here))
	_, ok := r.Chording()
	assert.False(t, ok)
}

func TestSecondTriggerWhileChording(t *testing.T) {
	var r Recognizer
	r.Press(Middle, here, Numbered, 1)

	assert.Nil(t, r.Press(Left, there, Numbered, 2))
	at, _ := r.Chording()
	assert.Equal(t, here, at)
}

func TestReleaseElsewhereCancels(t *testing.T) {
	var r Recognizer
	r.Press(Middle, here, Numbered, 1)

	assert.Equal(t, []Event{{CancelChord, here}}, r.Release(Middle, there))
	assert.Nil(t, r.Release(Middle, here))
}

func TestReset(t *testing.T) {
	var r Recognizer
	assert.Nil(t, r.Reset())

	r.Press(Left, here, Numbered, 1)
	r.Press(Right, here, Numbered, 1)
	assert.Equal(t, []Event{{CancelChord, here}}, r.Reset())

	// held buttons are forgotten too
	assert.Nil(t, r.Press(Right, here, Numbered, 1))
}

func TestTargetOf(t *testing.T) {
	assert.Equal(t, Covered, TargetOf(mines.Cell{State: mines.Hidden, Content: mines.Number(3)}))
	assert.Equal(t, Covered, TargetOf(mines.Cell{State: mines.Flagged}))
	assert.Equal(t, Covered, TargetOf(mines.Cell{State: mines.QuestionMark}))
	assert.Equal(t, Numbered, TargetOf(mines.Cell{State: mines.Revealed, Content: mines.Number(3)}))
	assert.Equal(t, Open, TargetOf(mines.Cell{State: mines.Revealed, Content: mines.Empty}))
	assert.Equal(t, Open, TargetOf(mines.Cell{State: mines.Revealed, Content: mines.Mine}))
}

func TestClickCounter(t *testing.T) {
	var c ClickCounter
	now := time.Now()

	assert.Equal(t, 1, c.Count(here, now))
	assert.Equal(t, 2, c.Count(here, now.Add(100*time.Millisecond)))
	assert.Equal(t, 3, c.Count(here, now.Add(200*time.Millisecond)))
	assert.Equal(t, 1, c.Count(there, now.Add(300*time.Millisecond)))
	assert.Equal(t, 1, c.Count(there, now.Add(time.Second)))
}

func TestParseButton(t *testing.T) {
	for s, expected := range map[string]Button{"l": Left, "right": Right, "m": Middle} {
		b, err := ParseButton(s)
		assert.NoError(t, err)
		assert.Equal(t, expected, b)
	}
	_, err := ParseButton("x")
	assert.Error(t, err)
}
