// Package runtime wires the detect -> parse -> transform -> execute
// pipeline (spec §2) together and owns the plugin source registry's
// lifecycle, the way the teacher's runtime owns AST execution and plugin
// registration/shutdown.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/corvuslabs/ptx/plugin"
)

var (
	ErrInvalidState = errors.New("invalid state")
)

type runtimeState int

const (
	created runtimeState = iota
	started
	stopped
)

var stateStrings = map[runtimeState]string{
	created: "created",
	started: "started",
	stopped: "stopped",
}

// RegisterFunc attaches one plugin's sources to a Registration, matching
// each plugin subpackage's Register(*plugin.Registration) function shape.
type RegisterFunc func(*plugin.Registration)

// Runtime owns the source registry and the cancellation context shared by
// every source collaborator a query invokes.
type Runtime struct {
	log      hclog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	registry *plugin.Registration
	registerers []RegisterFunc
	wg       sync.WaitGroup
	state    runtimeState
}

// New builds a Runtime that will register each of registerers on Start.
func New(log hclog.Logger, registerers ...RegisterFunc) *Runtime {
	return &Runtime{
		log:         log.Named("runtime"),
		registry:    plugin.NewRegistration(),
		registerers: registerers,
	}
}

// Start registers every configured plugin source under a cancellable
// context derived from parent.
func (r *Runtime) Start(parent context.Context) error {
	start := time.Now()
	if r.state != created {
		return fmt.Errorf("%w: invalid state for start: %s", ErrInvalidState, stateStrings[r.state])
	}
	r.ctx, r.cancel = context.WithCancel(parent)
	for _, register := range r.registerers {
		register(r.registry)
	}
	r.state = started
	r.log.Debug("runtime started", "duration", time.Since(start).String())
	return nil
}

// Stop cancels the shared context and waits for any asynchronous work
// started via Go to finish.
func (r *Runtime) Stop() error {
	if r.state != started {
		return fmt.Errorf("%w: invalid state for stop: %s", ErrInvalidState, stateStrings[r.state])
	}
	r.cancel()
	r.wg.Wait()
	r.state = stopped
	return nil
}

// Go runs fn in a goroutine tracked by Stop's wait group, for sinks or
// sources the caller wants to run asynchronously.
func (r *Runtime) Go(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// Context returns the runtime's shared, cancellable context. Valid only
// between Start and Stop.
func (r *Runtime) Context() context.Context { return r.ctx }

// Registry returns the plugin source registry, populated after Start.
func (r *Runtime) Registry() *plugin.Registration { return r.registry }

// Source looks up a registered source by "qualifier.class" and collects
// every line it produces into memory, per spec §5: "I/O-bearing source
// collaborators may block; they collect lines into memory before invoking
// parsers."
func (r *Runtime) Source(qualifier, class string, args ...string) ([]plugin.Line, error) {
	src, _, ok := r.registry.Source(qualifier, class)
	if !ok {
		return nil, fmt.Errorf("unknown source %s.%s", qualifier, class)
	}
	ch, err := src(r.ctx, args...)
	if err != nil {
		return nil, err
	}
	var lines []plugin.Line
	for l := range ch {
		lines = append(lines, l)
	}
	return lines, nil
}
