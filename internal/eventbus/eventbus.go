package eventbus

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"logagrip/internal/domain"
	"logagrip/internal/logging"
)

// Capacity bounds both the action queue and the merged event stream
const Capacity = 100

// RunState is the process-wide run flag. The quit handler clears it and every
// producer and the main loop poll it.
type RunState struct {
	running atomic.Bool
	once    sync.Once
	stopped chan struct{}
}

// NewRunState returns a run flag that is already running
func NewRunState() *RunState {
	rs := &RunState{stopped: make(chan struct{})}
	rs.running.Store(true)
	return rs
}

func (rs *RunState) IsRunning() bool { return rs.running.Load() }

// Stop clears the flag. It is safe to call more than once.
func (rs *RunState) Stop() {
	rs.running.Store(false)
	rs.once.Do(func() { close(rs.stopped) })
}

// Stopped is closed by the first Stop, waking anything blocked on a source
func (rs *RunState) Stopped() <-chan struct{} { return rs.stopped }

// Bus merges ticks, keys and relayed actions into one ordered stream
type Bus struct {
	run     *RunState
	actions chan domain.Action
	events  chan domain.Event
	done    chan struct{}
	stopped atomic.Bool
}

// New creates a bus bound to run
func New(run *RunState) *Bus {
	return &Bus{
		run:     run,
		actions: make(chan domain.Action, Capacity),
		events:  make(chan domain.Event, Capacity),
		done:    make(chan struct{}),
	}
}

// Events returns the merged stream. Only the main loop reads it.
func (b *Bus) Events() <-chan domain.Event { return b.events }

// Done is closed once Run has returned
func (b *Bus) Done() <-chan struct{} { return b.done }

// Publish queues an action, blocking until there is room. It fails once ctx
// ends or the bus has stopped.
func (b *Bus) Publish(ctx context.Context, action domain.Action) error {
	if b.stopped.Load() {
		return &domain.ChannelSendError{Channel: "actions", Reason: "bus stopped"}
	}
	select {
	case b.actions <- action:
		return nil
	case <-ctx.Done():
		return &domain.ChannelSendError{Channel: "actions", Reason: ctx.Err().Error()}
	case <-b.done:
		return &domain.ChannelSendError{Channel: "actions", Reason: "bus stopped"}
	}
}

// Offer queues an action without blocking
func (b *Bus) Offer(action domain.Action) error {
	if b.stopped.Load() {
		return &domain.ChannelSendError{Channel: "actions", Reason: "bus stopped"}
	}
	select {
	case b.actions <- action:
		return nil
	default:
		logging.Warn("eventbus", "action queue full, dropping action", "action", action.Type())
		return &domain.ChannelSendError{Channel: "actions", Reason: "queue full"}
	}
}

// Run drives the three producers until the run flag clears or ctx ends.
// A source channel that closes ends only its own producer.
//
// Each producer checks the run flag once per iteration, before and after it
// waits on its source. The check is best-effort: a flag cleared between the
// check and the send can still let one event through, and Run makes no hard
// real-time cancellation guarantee. Events keep FIFO order per producer only.
func (b *Bus) Run(ctx context.Context, ticks <-chan time.Time, keys <-chan domain.Key) error {
	defer func() {
		b.stopped.Store(true)
		close(b.done)
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(guard("tick", func() error {
		return produce(ctx, b, ticks, func(at time.Time) domain.Event { return domain.TickEvent{At: at} })
	}))
	g.Go(guard("key", func() error {
		return produce(ctx, b, keys, func(k domain.Key) domain.Event { return domain.InputEvent{Key: k} })
	}))
	g.Go(guard("action", func() error {
		return produce(ctx, b, b.actions, func(a domain.Action) domain.Event { return domain.ActionEvent{Action: a} })
	}))
	return g.Wait()
}

// produce forwards source into the merged stream while the run flag is set.
// The flag is polled per iteration without blocking; Stopped and ctx only
// interrupt the waits, so shutdown is prompt but not instantaneous.
func produce[T any](ctx context.Context, b *Bus, source <-chan T, wrap func(T) domain.Event) error {
	for b.run.IsRunning() {
		var v T
		select {
		case <-ctx.Done():
			return nil
		case <-b.run.Stopped():
			return nil
		case got, ok := <-source:
			if !ok {
				return nil
			}
			v = got
		}
		if !b.run.IsRunning() {
			return nil
		}
		select {
		case b.events <- wrap(v):
		case <-ctx.Done():
			return nil
		case <-b.run.Stopped():
			return nil
		}
	}
	return nil
}

// guard turns a producer panic into an error so the group winds down
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("eventbus", nil, "producer panic", "producer", name, "panic", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("%s producer panic: %v", name, r)
			}
		}()
		return fn()
	}
}
