package model

const historySize = 5

// History keeps the hashes of recent generations for cycle detection
type History struct {
	hashes []string
}

// Update records a generation hash, keeping only the most recent ones
func (h *History) Update(hash string) {
	h.hashes = append(h.hashes, hash)
	if len(h.hashes) > historySize {
		h.hashes = h.hashes[1:]
	}
}

// IsStagnant reports whether hash repeats one of the last three recorded
// generations, which covers still lifes and period-2 and period-3 oscillators
func (h *History) IsStagnant(hash string) bool {
	if len(h.hashes) < 3 {
		return false
	}
	n := len(h.hashes)
	for i := 1; i <= 3; i++ {
		if h.hashes[n-i] == hash {
			return true
		}
	}
	return false
}

// Clear forgets all recorded generations
func (h *History) Clear() {
	h.hashes = nil
}
