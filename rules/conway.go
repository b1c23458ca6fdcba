package rules

const (
	survivalLow  = 2
	survivalHigh = 3
	birthCount   = 3
)

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	if alive {
		return Survives(neighbors)
	}
	return Born(neighbors)
}

// Survives reports whether a live cell with the given live neighbor count stays alive
func Survives(neighbors int) bool {
	return neighbors == survivalLow || neighbors == survivalHigh
}

// Born reports whether a dead cell with the given live neighbor count becomes alive
func Born(neighbors int) bool {
	return neighbors == birthCount
}
