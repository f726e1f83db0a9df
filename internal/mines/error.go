package mines

import "fmt"

// OutOfBoundsError is raised (as a panic) when the engine is handed a
// coordinate outside the grid. Validating input is the caller's job.
type OutOfBoundsError struct {
	Row, Col   int
	Rows, Cols int
}

// [*OutOfBoundsError] implements [error]
func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"mines: cell [%d:%d] is outside the %dx%d grid",
		e.Row, e.Col, e.Rows, e.Cols,
	)
}
