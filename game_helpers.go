package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/sparse-gol/driver"
	"github.com/sheikhrachel/sparse-gol/model"
	"github.com/sheikhrachel/sparse-gol/utils"
)

// errQuit is returned by handleCommand when the user asks to exit
var errQuit = errors.New("quit")

// initializeGame sets up the simulation, its renderer and stats
func initializeGame(config utils.Config) (
	*driver.Simulation,
	*model.TerminalRenderer,
	*utils.Stats,
	error,
) {
	var (
		renderer *model.TerminalRenderer
		sink     model.Sink
	)
	if config.Render {
		renderer = model.NewTerminalRenderer(config.GridSize, config.GridSize)
		sink = renderer
	}

	sim, err := driver.New(config, sink)
	if err != nil {
		return nil, nil, nil, errors.WithMessage(err, "[initializeGame]")
	}
	if err = seedPattern(sim, config); err != nil {
		return nil, nil, nil, errors.WithMessage(err, "[initializeGame]")
	}

	return sim, renderer, utils.NewStats(), nil
}

// seedPattern places the configured starting cells around the grid center
func seedPattern(sim *driver.Simulation, config utils.Config) error {
	n := sim.GridSize()
	cx, cy := n/2, n/2

	var cells []model.Coord
	switch config.Pattern {
	case utils.PatternBlinker:
		cells = []model.Coord{{X: cx - 1, Y: cy}, {X: cx, Y: cy}, {X: cx + 1, Y: cy}}
	case utils.PatternBlock:
		cells = []model.Coord{{X: cx, Y: cy}, {X: cx + 1, Y: cy}, {X: cx, Y: cy + 1}, {X: cx + 1, Y: cy + 1}}
	case utils.PatternRandom:
		rng := rand.New(rand.NewPCG(uint64(config.Seed), 0))
		for x := 0; x <= n; x++ {
			for y := 0; y <= n; y++ {
				if rng.Float64() < config.RandomDensity {
					cells = append(cells, model.Coord{X: x, Y: y})
				}
			}
		}
	default:
		return errors.Errorf("[seedPattern] unknown pattern %q", config.Pattern)
	}

	for _, c := range cells {
		if _, err := sim.SetCell(c.X, c.Y, model.Live); err != nil {
			return errors.WithMessagef(err, "[seedPattern] pattern %q", config.Pattern)
		}
	}
	return nil
}

// displayGameInfo shows the initial game information
func displayGameInfo(config utils.Config, sim *driver.Simulation) {
	fmt.Printf("Pattern: %s | Memory Pool: %v | Tick: %v\n",
		config.Pattern, config.UseMemoryPool, config.TickInterval)
	fmt.Printf("Grid: %dx%d | Initial living cells: %d\n",
		sim.GridSize(), sim.GridSize(), sim.World().Population())
	if config.Interactive {
		fmt.Println("Commands: t X Y (toggle), n (step), p (pause), r (resume), start, s (stop), g N (grid size), q (quit)")
	}
	fmt.Println("Press Ctrl+C to exit gracefully")
	fmt.Println()
}

// displayGameStatus shows the current game status
func displayGameStatus(report driver.TickReport, sim *driver.Simulation, stats *utils.Stats) {
	status := "Active"
	if report.Stagnant {
		status = fmt.Sprintf("Stagnant (%d)", report.StagnantCount)
	}
	if report.Population == 0 {
		status = "Extinct"
	}

	fmt.Printf("Gen: %d | Living: %d | Density: %.1f%% | Born: %d | Died: %d | Status: %s\n",
		report.Generation, report.Population, stats.Density(sim.GridSize()),
		len(report.Diff.Born), len(report.Diff.Died), status)
	fmt.Printf("Elapsed: %v | Avg Pop: %.1f | Peak Pop: %d\n",
		report.Elapsed, stats.AveragePopulation, stats.PeakPopulation)
	fmt.Println()
}

// runUntilDone blocks until the tick loop ends, or until the interactive
// session quits, then stops the simulation. The loop error is returned once,
// from Stop, which waits on the same loop as Wait.
func runUntilDone(ctx context.Context, sim *driver.Simulation, config utils.Config, show func(driver.TickReport)) error {
	if config.Interactive {
		runInteractive(ctx, sim, show)
	} else {
		_ = sim.Wait()
	}
	return sim.Stop()
}

// checkStopConditions determines if the generation loop should end
func checkStopConditions(report driver.TickReport, config utils.Config) (bool, string) {
	if config.MaxGenerations > 0 && report.Generation >= config.MaxGenerations {
		return true, fmt.Sprintf("reached maximum generations limit (%d)", config.MaxGenerations)
	}
	if report.Population == 0 {
		return true, "extinction"
	}
	if config.StopOnStagnation && report.StagnantCount >= config.StagnationThreshold {
		return true, "stagnation detected"
	}
	return false, ""
}

// renderFrame redraws the terminal with the status line and board
func renderFrame(renderer *model.TerminalRenderer, report driver.TickReport, sim *driver.Simulation, stats *utils.Stats) {
	if renderer == nil {
		displayGameStatus(report, sim, stats)
		return
	}
	if err := renderer.Clear(); err != nil {
		fmt.Println("Error clearing terminal:", err)
	}
	displayGameStatus(report, sim, stats)
	if err := renderer.Display(os.Stdout); err != nil {
		fmt.Println("Error rendering board:", err)
	}
}

// handleCommand applies one line of interactive input to the simulation.
// show is called with the report of a manual step.
func handleCommand(ctx context.Context, sim *driver.Simulation, line string, show func(driver.TickReport)) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	ints := func(args []string, want int) ([]int, error) {
		if len(args) != want {
			return nil, errors.Errorf("[handleCommand] %q expects %d arguments", fields[0], want)
		}
		out := make([]int, want)
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, errors.Wrapf(err, "[handleCommand] bad argument %q", a)
			}
			out[i] = v
		}
		return out, nil
	}

	switch fields[0] {
	case "t", "toggle":
		xy, err := ints(fields[1:], 2)
		if err != nil {
			return err
		}
		return sim.Toggle(xy[0], xy[1])
	case "n", "step":
		show(sim.Step())
	case "p", "pause":
		sim.Pause()
	case "r", "resume":
		sim.Resume()
	case "start":
		return sim.Start(ctx)
	case "s", "stop":
		return sim.Stop()
	case "g", "size":
		n, err := ints(fields[1:], 1)
		if err != nil {
			return err
		}
		return sim.SetGridSize(n[0])
	case "q", "quit":
		return errQuit
	default:
		return errors.Errorf("[handleCommand] unknown command %q", fields[0])
	}
	return nil
}
