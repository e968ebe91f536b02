package params

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

type snapshot struct {
	params  Parameters
	version uint64
}

// Store holds the current parameter snapshot. Snapshot never blocks and
// never returns a partially written value.
type Store struct {
	mu  sync.Mutex
	cur atomic.Pointer[snapshot]
}

func NewStore(p Parameters) *Store {
	s := &Store{}
	s.cur.Store(&snapshot{params: p, version: 1})
	return s
}

// Snapshot returns the current parameters and their version. The version
// changes on every accepted edit.
func (s *Store) Snapshot() (Parameters, uint64) {
	snap := s.cur.Load()
	return snap.params, snap.version
}

func (s *Store) Params() Parameters {
	return s.cur.Load().params
}

func (s *Store) Version() uint64 {
	return s.cur.Load().version
}

// Update applies fn to the current snapshot and publishes the result unless
// fn fails.
func (s *Store) Update(fn func(Parameters) (Parameters, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cur.Load()
	next, err := fn(old.params)
	if err != nil {
		return err
	}
	s.cur.Store(&snapshot{params: next, version: old.version + 1})
	return nil
}

func (s *Store) Set(key, value string) error {
	return s.Update(func(p Parameters) (Parameters, error) { return p.Set(key, value) })
}

func (s *Store) ApplyTheme(name string) error {
	return s.Update(func(p Parameters) (Parameters, error) { return p.ApplyTheme(name) })
}

func (s *Store) Nudge(key string, steps int) error {
	return s.Update(func(p Parameters) (Parameters, error) { return p.Nudge(key, steps) })
}

func (s *Store) Randomize(rng *rand.Rand) {
	_ = s.Update(func(p Parameters) (Parameters, error) { return p.Randomize(rng), nil })
}

func (s *Store) Reset() {
	_ = s.Update(func(p Parameters) (Parameters, error) { return p.Reset(), nil })
}

// Replace swaps in a whole parameter set after validating it.
func (s *Store) Replace(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.Update(func(Parameters) (Parameters, error) { return p, nil })
}
