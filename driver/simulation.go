// Package driver runs a World on a fixed cadence and relays its changes to a
// rendering sink. A Simulation is the single context handed to input handlers
// and the tick loop; the package keeps no global state.
package driver

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/sparse-gol/model"
	"github.com/sheikhrachel/sparse-gol/utils"
)

// TickReport describes the generation produced by one step
type TickReport struct {
	Generation    int
	Elapsed       time.Duration
	Population    int
	Diff          model.Diff
	Stagnant      bool
	StagnantCount int
}

// Simulation owns one World, its rendering sink and the ticker driving it
type Simulation struct {
	mu sync.Mutex

	cfg    utils.Config
	world  *model.World
	sink   model.Sink
	ticker *Ticker

	generation    int
	history       model.History
	stagnantCount int
	onTick        func(TickReport) error
}

type nopSink struct{}

func (nopSink) InitDrawing()       {}
func (nopSink) DrawCell(_, _ int)  {}
func (nopSink) ClearCell(_, _ int) {}

// New builds an idle simulation from cfg. sink may be nil.
func New(cfg utils.Config, sink model.Sink) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "[New]")
	}

	var pool *model.CellSetPool
	if cfg.UseMemoryPool {
		pool = model.NewCellSetPool()
	}

	world, err := model.NewWorld(cfg.GridSize, cfg.GridSize, pool)
	if err != nil {
		return nil, errors.WithMessage(err, "[New]")
	}

	if sink == nil {
		sink = nopSink{}
	}

	s := &Simulation{
		cfg:   cfg,
		world: world,
		sink:  sink,
	}
	s.ticker = NewTicker(cfg.TickInterval, s.tick)

	if r, ok := sink.(model.Resizer); ok {
		r.Resize(cfg.GridSize, cfg.GridSize)
	}
	sink.InitDrawing()
	return s, nil
}

// World exposes the underlying engine for queries
func (s *Simulation) World() *model.World {
	return s.world
}

// GridSize returns the current grid dimension
func (s *Simulation) GridSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.GridSize
}

// OnTick registers a hook called after every ticker-driven step. Returning
// ErrStop from the hook ends the tick loop. Set it before Start.
func (s *Simulation) OnTick(fn func(TickReport) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// SetCell changes one cell and draws or clears it
func (s *Simulation) SetCell(x, y int, mode model.Mode) (model.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := s.world.SetCell(x, y, mode)
	if err != nil {
		return change, err
	}
	if change.Alive {
		s.sink.DrawCell(x, y)
	} else {
		s.sink.ClearCell(x, y)
	}
	return change, nil
}

// Toggle flips one cell, as a click on the board does
func (s *Simulation) Toggle(x, y int) error {
	_, err := s.SetCell(x, y, model.Toggle)
	return err
}

// Step advances one generation and redraws the board
func (s *Simulation) Step() TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step()
}

func (s *Simulation) step() TickReport {
	s.history.Update(s.world.Hash())
	diff := s.world.Step()
	s.generation++

	s.sink.InitDrawing()
	live := s.world.LiveCells()
	for _, c := range live {
		s.sink.DrawCell(c.X, c.Y)
	}

	stagnant := s.history.IsStagnant(s.world.Hash())
	if stagnant {
		s.stagnantCount++
	} else {
		s.stagnantCount = 0
	}

	return TickReport{
		Generation:    s.generation,
		Elapsed:       s.elapsed(),
		Population:    len(live),
		Diff:          diff,
		Stagnant:      stagnant,
		StagnantCount: s.stagnantCount,
	}
}

func (s *Simulation) tick(int) error {
	s.mu.Lock()
	report := s.step()
	onTick := s.onTick
	s.mu.Unlock()

	if onTick == nil {
		return nil
	}
	return onTick(report)
}

// Generation returns the number of steps since the last reset
func (s *Simulation) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Elapsed returns simulated time, one interval per generation whether the
// step came from the ticker or from a manual Step
func (s *Simulation) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed()
}

func (s *Simulation) elapsed() time.Duration {
	return time.Duration(s.generation) * s.cfg.TickInterval
}

// Start begins stepping once per configured interval
func (s *Simulation) Start(ctx context.Context) error {
	return s.ticker.Start(ctx)
}

// Pause holds the generation loop without losing state
func (s *Simulation) Pause() {
	s.ticker.Pause()
}

// Resume continues a paused generation loop
func (s *Simulation) Resume() {
	s.ticker.Resume()
}

// Running reports whether the generation loop is active
func (s *Simulation) Running() bool {
	return s.ticker.Running()
}

// Wait blocks until the generation loop ends
func (s *Simulation) Wait() error {
	return s.ticker.Wait()
}

// Reset clears the board and the generation counters
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Simulation) reset() {
	s.world.Reset()
	s.history.Clear()
	s.generation = 0
	s.stagnantCount = 0
	s.sink.InitDrawing()
}

// Stop ends the generation loop and resets the board and counters
func (s *Simulation) Stop() error {
	err := s.ticker.Stop()
	s.Reset()
	if err != nil {
		return errors.WithMessage(err, "[Stop]")
	}
	return nil
}

// SetGridSize stops the simulation, clears it, and resizes the grid to n x n
func (s *Simulation) SetGridSize(n int) error {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if err := cfg.ValidateGridSize(n); err != nil {
		return errors.WithMessage(err, "[SetGridSize]")
	}
	if err := s.Stop(); err != nil {
		return errors.WithMessage(err, "[SetGridSize]")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.SetGridSize(n); err != nil {
		return errors.WithMessage(err, "[SetGridSize]")
	}
	s.cfg.GridSize = n
	if r, ok := s.sink.(model.Resizer); ok {
		r.Resize(n, n)
	}
	s.sink.InitDrawing()
	return nil
}
