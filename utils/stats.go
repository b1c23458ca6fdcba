package utils

import "time"

// Stats for run monitoring. Elapsed time is derived from the tick count.
type Stats struct {
	TotalGenerations  int
	Elapsed           time.Duration
	Population        int
	PeakPopulation    int
	AveragePopulation float64
	Births            int
	Deaths            int
	StartTime         time.Time
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

func (s *Stats) Update(generation int, elapsed time.Duration, population, born, died int) {
	s.TotalGenerations = generation
	s.Elapsed = elapsed
	s.Population = population
	s.Births += born
	s.Deaths += died
	s.PeakPopulation = max(s.PeakPopulation, population)

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

// Density returns the share of grid cells that are live, as a percentage
func (s *Stats) Density(gridSize int) float64 {
	cells := (gridSize + 1) * (gridSize + 1)
	if cells <= 0 {
		return 0
	}
	return float64(s.Population) / float64(cells) * 100
}
