package model

import "sync"

// CellSetPool recycles the sparse sets swapped out at the end of each generation
type CellSetPool struct {
	pool sync.Pool
}

func NewCellSetPool() *CellSetPool {
	return &CellSetPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make(cellSet)
			},
		},
	}
}

// get retrieves an empty set, allocating when the pool is nil
func (p *CellSetPool) get() cellSet {
	if p == nil {
		return make(cellSet)
	}
	return p.pool.Get().(cellSet)
}

// put clears the set before returning it to the pool
func (p *CellSetPool) put(s cellSet) {
	if p == nil || s == nil {
		return
	}
	clear(s)
	p.pool.Put(s)
}
