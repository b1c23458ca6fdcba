package model

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// Sink receives drawing instructions for the board
type Sink interface {
	// InitDrawing redraws the whole board as dead
	InitDrawing()
	// DrawCell marks one cell as alive
	DrawCell(x, y int)
	// ClearCell marks one cell as dead
	ClearCell(x, y int)
}

// Resizer is implemented by sinks that track the grid dimensions
type Resizer interface {
	Resize(numCols, numRows int)
}

// TerminalRenderer draws the board into a character canvas and prints it
type TerminalRenderer struct {
	mu     sync.Mutex
	cols   int
	rows   int
	canvas [][]bool
}

// NewTerminalRenderer allocates a canvas covering the inclusive bounds of the grid
func NewTerminalRenderer(numCols, numRows int) *TerminalRenderer {
	r := &TerminalRenderer{}
	r.Resize(numCols, numRows)
	return r
}

// Resize reallocates the canvas for new grid dimensions
func (r *TerminalRenderer) Resize(numCols, numRows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols = numCols + 1
	r.rows = numRows + 1
	r.canvas = make([][]bool, r.rows)
	for i := range r.canvas {
		r.canvas[i] = make([]bool, r.cols)
	}
}

// InitDrawing clears the whole canvas
func (r *TerminalRenderer) InitDrawing() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for y := range r.canvas {
		clear(r.canvas[y])
	}
}

// DrawCell marks a cell alive, ignoring cells outside the canvas
func (r *TerminalRenderer) DrawCell(x, y int) {
	r.set(x, y, true)
}

// ClearCell marks a cell dead, ignoring cells outside the canvas
func (r *TerminalRenderer) ClearCell(x, y int) {
	r.set(x, y, false)
}

func (r *TerminalRenderer) set(x, y int, alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return
	}
	r.canvas[y][x] = alive
}

// Drawn reports whether the canvas shows the cell as alive
func (r *TerminalRenderer) Drawn(x, y int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if x < 0 || x >= r.cols || y < 0 || y >= r.rows {
		return false
	}
	return r.canvas[y][x]
}

// Display writes the canvas to w, one grid row per line
func (r *TerminalRenderer) Display(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bw := bufio.NewWriter(w)
	for y := range r.rows {
		for x := range r.cols {
			if r.canvas[y][x] {
				bw.WriteString(gridPosBlock)
			} else {
				bw.WriteString(gridPosEmpty)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "[Display] failed to write canvas")
	}
	return nil
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "[Clear] failed to clear terminal")
	}
	return nil
}
