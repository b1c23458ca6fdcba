package model

import "sort"

// Coord addresses a single cell on the grid
type Coord struct {
	X int
	Y int
}

// cellSet is a sparse two-level set of coordinates keyed by column then row.
// Only present cells occupy memory and empty columns are dropped.
type cellSet map[int]map[int]struct{}

func (s cellSet) add(x, y int) {
	col, ok := s[x]
	if !ok {
		col = make(map[int]struct{})
		s[x] = col
	}
	col[y] = struct{}{}
}

func (s cellSet) remove(x, y int) {
	col, ok := s[x]
	if !ok {
		return
	}
	delete(col, y)
	if len(col) == 0 {
		delete(s, x)
	}
}

func (s cellSet) has(x, y int) bool {
	_, ok := s[x][y]
	return ok
}

func (s cellSet) size() (n int) {
	for _, col := range s {
		n += len(col)
	}
	return
}

func (s cellSet) each(fn func(x, y int)) {
	for x, col := range s {
		for y := range col {
			fn(x, y)
		}
	}
}

// coords returns the members ordered by X then Y
func (s cellSet) coords() []Coord {
	out := make([]Coord, 0, s.size())
	s.each(func(x, y int) {
		out = append(out, Coord{X: x, Y: y})
	})
	sortCoords(out)
	return out
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}
