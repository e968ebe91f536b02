// Package live owns the time accumulator of the interactive view.
//
// A Loop advances its own clock on every Step and regenerates the frame
// from the current parameter snapshot. It knows nothing about timers: the
// caller schedules ticks and uses Subscribe and Active to make sure only
// one tick chain is ever alive.
package live

import (
	"sync"

	"github.com/san-kum/morphcontours/internal/contour"
	"github.com/san-kum/morphcontours/internal/params"
)

type Loop struct {
	store *params.Store

	mu      sync.Mutex
	t       float64
	gen     uint64
	version uint64
	stopped bool
}

func NewLoop(store *params.Store) *Loop {
	return &Loop{store: store}
}

// Step advances time by the snapshot's time step and returns the frame for
// the new time at scale 1.
func (l *Loop) Step() contour.Frame {
	p := l.store.Params()

	l.mu.Lock()
	l.t += p.TimeStep()
	t := l.t
	l.mu.Unlock()

	return contour.GenerateFrame(t, p, 1)
}

// Frame regenerates the current time without advancing it.
func (l *Loop) Frame() contour.Frame {
	p := l.store.Params()
	return contour.GenerateFrame(l.Time(), p, 1)
}

func (l *Loop) Time() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t
}

// Params returns the snapshot the next Step will use.
func (l *Loop) Params() params.Parameters {
	return l.store.Params()
}

// Subscribe starts a new tick chain and returns its generation. Every
// earlier generation stops being Active.
func (l *Loop) Subscribe() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.version = l.store.Version()
	l.stopped = false
	return l.gen
}

// Active reports whether a tick of generation gen should run. It is false
// once a newer chain was subscribed, the parameters were replaced since
// gen was subscribed, or the loop was stopped.
func (l *Loop) Active(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.stopped && gen == l.gen && l.version == l.store.Version()
}

// Stop invalidates every pending tick. The accumulator is kept, so a later
// Subscribe resumes where the animation left off.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.gen++
	l.mu.Unlock()
}
