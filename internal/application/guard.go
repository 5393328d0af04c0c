package application

import "sync/atomic"

// Guard keeps two cycles from running at the same time. A trigger that
// cannot enter is dropped, never queued.
type Guard struct {
	running atomic.Bool
}

// TryEnter acquires the guard if it is free.
func (g *Guard) TryEnter() bool { return g.running.CompareAndSwap(false, true) }

func (g *Guard) Exit() { g.running.Store(false) }

func (g *Guard) Running() bool { return g.running.Load() }
