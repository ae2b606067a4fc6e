package training

import "sync"

// WorkerProgress is what a worker last published about itself.
type WorkerProgress struct {
	Episodes  int
	Percent   int
	AvgReward float64
	Done      bool
	Err       error
}

type progressSlot struct {
	mu sync.Mutex
	p  WorkerProgress
}

// Board holds one progress slot per worker. Each slot has its own lock and
// is written only by its worker; readers may see slightly stale values.
type Board struct {
	slots []progressSlot
}

// NewBoard returns a board with n empty slots.
func NewBoard(n int) *Board {
	return &Board{slots: make([]progressSlot, n)}
}

// Len returns the number of slots.
func (b *Board) Len() int {
	return len(b.slots)
}

// Set publishes progress for worker.
func (b *Board) Set(worker int, p WorkerProgress) {
	s := &b.slots[worker]
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

// Get returns the last progress published by worker.
func (b *Board) Get(worker int) WorkerProgress {
	s := &b.slots[worker]
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p
}

// Read copies every slot.
func (b *Board) Read() []WorkerProgress {
	out := make([]WorkerProgress, len(b.slots))
	for i := range b.slots {
		out[i] = b.Get(i)
	}
	return out
}
