package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/sparse-gol/rules"
)

// Mode selects how SetCell changes a cell. The zero value forces the cell live.
type Mode int

const (
	Live Mode = iota
	Dead
	Toggle
)

func (m Mode) String() string {
	switch m {
	case Live:
		return "live"
	case Dead:
		return "dead"
	case Toggle:
		return "toggle"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Change reports the state a cell was left in by SetCell
type Change struct {
	Coord
	Alive bool
}

// Diff lists the cells that changed state during one generation
type Diff struct {
	Born []Coord
	Died []Coord
}

// Empty reports whether no cell changed
func (d Diff) Empty() bool {
	return len(d.Born) == 0 && len(d.Died) == 0
}

// World holds the sparse state of a bounded Game of Life grid.
//
// Valid coordinates satisfy 0 <= x <= numCols and 0 <= y <= numRows. The upper
// bound is inclusive, so a grid of size n addresses n+1 columns and rows.
type World struct {
	mu sync.Mutex

	numCols int
	numRows int

	liveCells          cellSet
	deadCellEncounters map[Coord]int
	nextGeneration     cellSet

	pool *CellSetPool
}

// NewWorld creates an empty world. pool may be nil.
func NewWorld(numCols, numRows int, pool *CellSetPool) (*World, error) {
	if numCols <= 0 || numRows <= 0 {
		return nil, errors.Wrapf(ErrInvalidGridSize, "[NewWorld] %dx%d", numCols, numRows)
	}
	return &World{
		numCols:            numCols,
		numRows:            numRows,
		liveCells:          pool.get(),
		deadCellEncounters: make(map[Coord]int),
		nextGeneration:     pool.get(),
		pool:               pool,
	}, nil
}

// Size returns the grid dimensions
func (w *World) Size() (numCols, numRows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.numCols, w.numRows
}

// SetGridSize sets both dimensions to n. Callers reset the world first, since
// live cells beyond the new bounds are not removed.
func (w *World) SetGridSize(n int) error {
	if n <= 0 {
		return errors.Wrapf(ErrInvalidGridSize, "[SetGridSize] size: %d", n)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.numCols = n
	w.numRows = n
	return nil
}

// Reset clears the live cells and every per-tick tally
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.liveCells)
	clear(w.deadCellEncounters)
	clear(w.nextGeneration)
}

func (w *World) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x <= w.numCols && y <= w.numRows
}

// SetCell forces a cell live or dead, or flips it, and reports its resulting state
func (w *World) SetCell(x, y int, mode Mode) (Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.inBounds(x, y) {
		return Change{}, errors.Wrapf(ErrOutOfBounds, "[SetCell] (%d,%d) on %dx%d grid", x, y, w.numCols, w.numRows)
	}

	var alive bool
	switch mode {
	case Live:
		alive = true
	case Dead:
		alive = false
	case Toggle:
		alive = !w.liveCells.has(x, y)
	default:
		return Change{}, errors.Errorf("[SetCell] unknown mode: %v", mode)
	}

	if alive {
		w.liveCells.add(x, y)
	} else {
		w.liveCells.remove(x, y)
	}
	return Change{Coord: Coord{X: x, Y: y}, Alive: alive}, nil
}

// IsLive reports whether the cell is live in the current generation
func (w *World) IsLive(x, y int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.liveCells.has(x, y)
}

// Population returns the number of live cells
func (w *World) Population() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.liveCells.size()
}

// LiveCells returns a sorted snapshot of the current generation
func (w *World) LiveCells() []Coord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.liveCells.coords()
}

// NextGeneration returns a sorted snapshot of the cells scheduled for the next generation
func (w *World) NextGeneration() []Coord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.nextGeneration.coords()
}

// DeadCellEncounters returns a copy of the dead-neighbor tallies
func (w *World) DeadCellEncounters() map[Coord]int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[Coord]int, len(w.deadCellEncounters))
	for c, n := range w.deadCellEncounters {
		out[c] = n
	}
	return out
}

// CheckForLife counts the live neighbors of a live cell, tallies every dead
// neighbor it sees, and schedules the cell for the next generation when it
// survives. The scan is clipped to the grid and counts the center cell, so the
// result is only meaningful for a live (x, y).
func (w *World) CheckForLife(x, y int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.inBounds(x, y) {
		return 0, errors.Wrapf(ErrOutOfBounds, "[CheckForLife] (%d,%d) on %dx%d grid", x, y, w.numCols, w.numRows)
	}
	return w.checkForLife(x, y), nil
}

func (w *World) checkForLife(x, y int) int {
	// the center is live and gets counted by the scan
	liveCount := -1

	for i := max(0, x-1); i <= x+1 && i <= w.numCols; i++ {
		for j := max(0, y-1); j <= y+1 && j <= w.numRows; j++ {
			if w.liveCells.has(i, j) {
				liveCount++
				continue
			}
			w.deadCellEncounters[Coord{X: i, Y: j}]++
		}
	}

	if rules.ApplyConwayRules(liveCount, true) {
		w.nextGeneration.add(x, y)
	}
	return liveCount
}

// Reproduce schedules every dead cell seen by exactly three live neighbors
func (w *World) Reproduce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reproduce()
}

func (w *World) reproduce() {
	for c, n := range w.deadCellEncounters {
		if rules.ApplyConwayRules(n, false) {
			w.nextGeneration.add(c.X, c.Y)
		}
	}
}

// Step advances the world by one generation and returns the cells that changed.
// The new generation replaces the old one in a single swap.
func (w *World) Step() Diff {
	w.mu.Lock()
	defer w.mu.Unlock()

	clear(w.nextGeneration)
	clear(w.deadCellEncounters)

	w.liveCells.each(func(x, y int) {
		w.checkForLife(x, y)
	})
	w.reproduce()

	diff := diffSets(w.liveCells, w.nextGeneration)

	prev := w.liveCells
	w.liveCells = w.nextGeneration
	w.nextGeneration = w.pool.get()
	w.pool.put(prev)
	clear(w.deadCellEncounters)

	return diff
}

func diffSets(prev, next cellSet) Diff {
	var d Diff
	next.each(func(x, y int) {
		if !prev.has(x, y) {
			d.Born = append(d.Born, Coord{X: x, Y: y})
		}
	})
	prev.each(func(x, y int) {
		if !next.has(x, y) {
			d.Died = append(d.Died, Coord{X: x, Y: y})
		}
	})
	sortCoords(d.Born)
	sortCoords(d.Died)
	return d
}

// Hash returns an MD5 digest of the current generation
func (w *World) Hash() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	h := md5.New()
	var buf [16]byte
	for _, c := range w.liveCells.coords() {
		binary.LittleEndian.PutUint64(buf[:8], uint64(c.X))
		binary.LittleEndian.PutUint64(buf[8:], uint64(c.Y))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
