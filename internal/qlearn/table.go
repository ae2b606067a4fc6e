// Package qlearn holds the shared action-value table trained by the workers:
// state projection, epsilon-greedy selection and the temporal-difference
// update.
package qlearn

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"
	"slices"
	"sync"

	"github.com/lox/blackjackrl/internal/blackjack"
)

const (
	// DefaultLearningRate is the TD step size α.
	DefaultLearningRate = 0.1
	// DefaultDiscount is the discount γ applied to the successor's value.
	DefaultDiscount = 1.0
)

var (
	// ErrInvalidReward is returned by Update for a NaN or infinite reward.
	// It indicates a scoring bug and must abort the caller.
	ErrInvalidReward = errors.New("invalid reward")

	// ErrUnregisteredState is returned by Update when either state was never
	// registered. It indicates broken trajectory bookkeeping and must abort
	// the caller.
	ErrUnregisteredState = errors.New("state not registered")

	// ErrIllegalAction is returned by Update when action has no slot in the
	// state's vector, such as Insurance without an ace showing.
	ErrIllegalAction = errors.New("action not legal in state")

	// ErrInvalidParameter is the panic value of NewTable when the learning
	// rate or discount is out of range.
	ErrInvalidParameter = errors.New("invalid table parameter")
)

// InvariantError is the panic value raised when the table is found in a
// state normal updates cannot produce, such as a NaN action value.
type InvariantError struct {
	State State
	Msg   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("qlearn invariant violated for %s: %s", e.State, e.Msg)
}

// entry is the action-value vector for one state. Its length is fixed when
// the state is registered.
type entry struct {
	mu     sync.Mutex
	values []float64
}

func (e *entry) snapshot() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.values)
}

const tableShardCount = 64
const tableShardMask = tableShardCount - 1

type tableShard struct {
	mu      sync.RWMutex
	entries map[State]*entry
}

// Table is a concurrent mapping from State to action values. Entries are
// spread over sharded maps and each entry carries its own lock, so work on
// different states never serialises and a read-modify-write on one state is a
// single critical section.
type Table struct {
	shards [tableShardCount]tableShard
	alpha  float64
	gamma  float64
}

// Option configures a Table.
type Option func(*Table)

// WithLearningRate sets the TD step size α, which must lie in (0, 1].
func WithLearningRate(alpha float64) Option {
	return func(t *Table) { t.alpha = alpha }
}

// WithDiscount sets the discount γ, which must lie in [0, 1].
func WithDiscount(gamma float64) Option {
	return func(t *Table) { t.gamma = gamma }
}

// NewTable returns an empty table ready for use. It panics with an error
// wrapping ErrInvalidParameter if an option sets α outside (0, 1] or γ
// outside [0, 1]; NaN and infinities are rejected by the same test.
func NewTable(opts ...Option) *Table {
	table := &Table{alpha: DefaultLearningRate, gamma: DefaultDiscount}
	for i := 0; i < tableShardCount; i++ {
		table.shards[i].entries = make(map[State]*entry)
	}
	for _, opt := range opts {
		opt(table)
	}
	if !(table.alpha > 0 && table.alpha <= 1) {
		panic(fmt.Errorf("%w: learning rate %v not in (0, 1]", ErrInvalidParameter, table.alpha))
	}
	if !(table.gamma >= 0 && table.gamma <= 1) {
		panic(fmt.Errorf("%w: discount %v not in [0, 1]", ErrInvalidParameter, table.gamma))
	}
	return table
}

// LearningRate returns α.
func (t *Table) LearningRate() float64 { return t.alpha }

// Discount returns γ.
func (t *Table) Discount() float64 { return t.gamma }

// Register ensures key has an entry, creating a zeroed vector sized by
// State.ActionCount when it is missing, and returns a copy of its values.
func (t *Table) Register(key State) []float64 {
	return t.getOrCreate(key).snapshot()
}

// Values returns a copy of the values for key and whether it is registered.
func (t *Table) Values(key State) ([]float64, bool) {
	e, ok := t.lookup(key)
	if !ok {
		return nil, false
	}
	return e.snapshot(), true
}

// SelectAction picks an action for key, registering it first if needed. With
// probability epsilon it picks uniformly among the legal actions, which are
// the slots of the registered vector. Otherwise it picks the highest value,
// ties going to the lowest slot.
//
// A NaN value or an empty vector panics with *InvariantError.
func (t *Table) SelectAction(key State, epsilon float64, rng *rand.Rand) blackjack.Action {
	e := t.getOrCreate(key)

	e.mu.Lock()
	n := len(e.values)
	if n == 0 {
		e.mu.Unlock()
		panic(&InvariantError{State: key, Msg: "no action values"})
	}
	if rng.Float64() < epsilon {
		e.mu.Unlock()
		return slotAction(key, rng.IntN(n))
	}
	best, _, err := argmax(e.values)
	e.mu.Unlock()
	if err != nil {
		panic(&InvariantError{State: key, Msg: err.Error()})
	}
	return slotAction(key, best)
}

// Update moves the value of action in key toward a TD target. When
// nextAction is non-nil the successor is non-terminal and the target is
// reward + γ·max(values[next]); otherwise the target is reward alone. The
// value then moves by α·(target − value).
//
// A zero reward skips the update entirely. A NaN or infinite reward returns
// ErrInvalidReward, an unregistered key or next returns
// ErrUnregisteredState and an action without a slot returns
// ErrIllegalAction.
func (t *Table) Update(key, next State, action blackjack.Action, nextAction *blackjack.Action, reward float64) error {
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidReward, reward)
	}
	if reward == 0 {
		return nil
	}

	e, ok := t.lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregisteredState, key)
	}
	nextEntry, ok := t.lookup(next)
	if !ok {
		return fmt.Errorf("%w: next %s", ErrUnregisteredState, next)
	}

	target := reward
	if nextAction != nil {
		nextEntry.mu.Lock()
		_, best, err := argmax(nextEntry.values)
		nextEntry.mu.Unlock()
		if err != nil {
			panic(&InvariantError{State: next, Msg: err.Error()})
		}
		target += t.gamma * best
	}

	slot := action.Slot()
	e.mu.Lock()
	defer e.mu.Unlock()
	if slot >= len(e.values) {
		return fmt.Errorf("%w: %s in %s", ErrIllegalAction, action, key)
	}
	e.values[slot] += t.alpha * (target - e.values[slot])
	return nil
}

// Entry is one row of a table snapshot.
type Entry struct {
	State  State
	Values []float64
}

// Snapshot copies every entry, sorted by state. Each row is consistent on its
// own but the snapshot as a whole is not atomic across states.
func (t *Table) Snapshot() []Entry {
	var out []Entry
	for i := 0; i < tableShardCount; i++ {
		shard := &t.shards[i]
		shard.mu.RLock()
		for k, v := range shard.entries {
			out = append(out, Entry{State: k, Values: v.snapshot()})
		}
		shard.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b Entry) int { return compareStates(a.State, b.State) })
	return out
}

// Len returns the number of registered states.
func (t *Table) Len() int {
	total := 0
	for i := 0; i < tableShardCount; i++ {
		shard := &t.shards[i]
		shard.mu.RLock()
		total += len(shard.entries)
		shard.mu.RUnlock()
	}
	return total
}

func (t *Table) lookup(key State) (*entry, bool) {
	shard := t.shardFor(key)
	shard.mu.RLock()
	e, ok := shard.entries[key]
	shard.mu.RUnlock()
	return e, ok
}

func (t *Table) getOrCreate(key State) *entry {
	if e, ok := t.lookup(key); ok {
		return e
	}

	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if e, ok := shard.entries[key]; ok {
		return e
	}
	e := &entry{values: make([]float64, key.ActionCount())}
	shard.entries[key] = e
	return e
}

func (t *Table) shardFor(key State) *tableShard {
	return &t.shards[key.hash()&tableShardMask]
}

// argmax returns the first index holding the maximum and that maximum.
func argmax(values []float64) (int, float64, error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no action values")
	}
	best := 0
	for i, v := range values {
		if math.IsNaN(v) {
			return 0, 0, fmt.Errorf("NaN value in slot %d", i)
		}
		if v > values[best] {
			best = i
		}
	}
	return best, values[best], nil
}

func slotAction(key State, slot int) blackjack.Action {
	a, ok := blackjack.ActionFromSlot(slot)
	if !ok {
		panic(&InvariantError{State: key, Msg: fmt.Sprintf("slot %d has no action", slot)})
	}
	return a
}
