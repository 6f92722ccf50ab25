// Package queue holds the readiness gate that defers work submitted before a
// resource has finished initializing.
package queue

import "sync"

// Task is a unit of deferred work. It receives the gate's init error, nil
// once the gate opened successfully.
type Task func(err error)

type state int

const (
	statePending state = iota
	stateDraining
	stateReady
)

// Gate buffers tasks until Open or Fail is called, then runs them in the
// order they were submitted. After the drain, Submit runs tasks directly on
// the caller's goroutine.
//
// A task must not wait on another task submitted to the same gate; while the
// gate drains, that task is queued behind the one waiting for it.
type Gate struct {
	mu      sync.Mutex
	state   state
	err     error
	pending []Task
}

// NewGate returns a closed gate.
func NewGate() *Gate {
	return &Gate{}
}

// Submit runs t now if the gate is ready, otherwise queues it.
func (g *Gate) Submit(t Task) {
	g.mu.Lock()
	if g.state != stateReady {
		g.pending = append(g.pending, t)
		g.mu.Unlock()
		return
	}
	err := g.err
	g.mu.Unlock()
	t(err)
}

// Open marks initialization complete and drains the pending tasks on the
// calling goroutine.
func (g *Gate) Open() {
	g.release(nil)
}

// Fail marks initialization failed. Pending and future tasks receive err.
func (g *Gate) Fail(err error) {
	g.release(err)
}

// release is one-shot; later calls are ignored.
func (g *Gate) release(err error) {
	g.mu.Lock()
	if g.state != statePending {
		g.mu.Unlock()
		return
	}
	g.state = stateDraining
	g.err = err

	for len(g.pending) > 0 {
		t := g.pending[0]
		g.pending[0] = nil
		g.pending = g.pending[1:]
		g.mu.Unlock()
		t(err)
		g.mu.Lock()
	}
	g.pending = nil
	g.state = stateReady
	g.mu.Unlock()
}

// Err is the init error, nil while pending or after a successful Open.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Len is the number of queued tasks.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
