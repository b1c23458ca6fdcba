package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/sparse-gol/driver"
	"github.com/sheikhrachel/sparse-gol/utils"
)

func main() {
	var (
		configPath  = flag.String("config", "config.json", "path to a JSON config file")
		size        = flag.Int("size", 0, "grid size, overrides the config file")
		interval    = flag.Duration("interval", 0, "time between generations, overrides the config file")
		generations = flag.Int("generations", -1, "stop after this many generations (0 runs forever)")
		pattern     = flag.String("pattern", "", "starting pattern: blinker, block or random")
		interactive = flag.Bool("interactive", false, "read commands from stdin")
	)
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			log.Fatalf("failed to load config: %+v", err)
		}
		fmt.Printf("Using default configuration (%s not found)\n", *configPath)
		config = utils.DefaultConfig()
	}
	if *size > 0 {
		config.GridSize = *size
	}
	if *interval > 0 {
		config.TickInterval = *interval
	}
	if *generations >= 0 {
		config.MaxGenerations = *generations
	}
	if *pattern != "" {
		config.Pattern = *pattern
	}
	if *interactive {
		config.Interactive = true
	}
	if err = config.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sim, renderer, stats, err := initializeGame(config)
	if err != nil {
		log.Fatalf("failed to initialize game: %+v", err)
	}
	displayGameInfo(config, sim)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ticks and interactive steps both report here
	var showMu sync.Mutex
	show := func(report driver.TickReport) {
		showMu.Lock()
		defer showMu.Unlock()
		stats.Update(report.Generation, report.Elapsed, report.Population, len(report.Diff.Born), len(report.Diff.Died))
		renderFrame(renderer, report, sim, stats)
	}

	sim.OnTick(func(report driver.TickReport) error {
		show(report)
		if done, reason := checkStopConditions(report, config); done {
			fmt.Printf("\n🏁 Stopping due to %s\n", reason)
			return driver.ErrStop
		}
		return nil
	})

	if err = sim.Start(ctx); err != nil {
		log.Fatalf("failed to start simulation: %+v", err)
	}

	if err = runUntilDone(ctx, sim, config, show); err != nil {
		fmt.Printf("Simulation ended with error: %v\n", err)
	}
	if ctx.Err() != nil {
		fmt.Println("\n🛑 Shutting down gracefully...")
	}
	fmt.Printf("Final stats: %d generations, %v simulated in %.1f seconds\n",
		stats.TotalGenerations, stats.Elapsed, time.Since(stats.StartTime).Seconds())
	fmt.Printf("Average population: %.1f | Peak: %d | Births: %d | Deaths: %d\n",
		stats.AveragePopulation, stats.PeakPopulation, stats.Births, stats.Deaths)
}

// runInteractive feeds stdin lines to the simulation until quit, EOF or ctx ends
func runInteractive(ctx context.Context, sim *driver.Simulation, show func(driver.TickReport)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			err := handleCommand(ctx, sim, line, show)
			if errors.Cause(err) == errQuit {
				return
			}
			if err != nil {
				fmt.Println("Error:", err)
			}
		}
	}
}
