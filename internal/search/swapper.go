package search

import "sync/atomic"

// Swapper hands out the current engine and atomically replaces it when a new
// index artifact is published. In-flight queries keep the engine they started
// with; a partially built index is never observable.
type Swapper struct {
	ptr atomic.Pointer[Engine]
}

// NewSwapper starts with the given engine.
func NewSwapper(e *Engine) *Swapper {
	s := &Swapper{}
	s.ptr.Store(e)
	return s
}

// Engine returns the engine currently being served.
func (s *Swapper) Engine() *Engine {
	return s.ptr.Load()
}

// Swap installs a new engine for subsequent queries.
func (s *Swapper) Swap(e *Engine) {
	s.ptr.Store(e)
}
