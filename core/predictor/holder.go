package predictor

import "sync"

// Holder publishes the active predictor and supports atomic
// replacement when a dataset is reloaded. Queries already running
// against the previous predictor finish on the snapshot they started
// with; only new calls to Current observe the swap.
type Holder struct {
	mu sync.RWMutex
	p  *Predictor
}

// NewHolder wraps the given predictor.
func NewHolder(p *Predictor) *Holder {
	return &Holder{p: p}
}

// Current returns the active predictor.
func (h *Holder) Current() *Predictor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.p
}

// Swap installs a new predictor and returns the previous one.
func (h *Holder) Swap(p *Predictor) *Predictor {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.p
	h.p = p
	return prev
}
