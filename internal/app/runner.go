package app

import (
	"context"
	"time"

	"logagrip/internal/domain"
	"logagrip/internal/eventbus"
	"logagrip/internal/logging"
)

// Renderer draws frames. It never mutates the app.
type Renderer interface {
	Render(s Snapshot)
	ShowHelp()
	Quit()
}

// Runner is the main loop: it drains the merged stream into the app and
// redraws on every tick
type Runner struct {
	app      *App
	bus      *eventbus.Bus
	renderer Renderer
	ticks    <-chan time.Time
	keys     <-chan domain.Key
}

// NewRunner wires app, bus and renderer together
func NewRunner(app *App, bus *eventbus.Bus, renderer Renderer, ticks <-chan time.Time, keys <-chan domain.Key) *Runner {
	app.renderer = renderer
	return &Runner{app: app, bus: bus, renderer: renderer, ticks: ticks, keys: keys}
}

// Run blocks until the run flag clears or ctx ends, then stops the bus, waits
// for in-flight fetches and tells the renderer to quit
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	busErr := make(chan error, 1)
	go func() { busErr <- r.bus.Run(ctx, r.ticks, r.keys) }()

	run := r.app.run
	for run.IsRunning() {
		select {
		case <-ctx.Done():
			logging.Info("app", "context done, stopping")
			run.Stop()
		case <-run.Stopped():
		case <-r.bus.Done():
			run.Stop()
		case e := <-r.bus.Events():
			r.app.HandleEvent(ctx, e)
			if e.Type() == domain.EventTick {
				r.renderer.Render(r.app.Snapshot())
			}
		}
	}

	cancel()
	err := <-busErr
	r.app.Wait()
	r.renderer.Quit()
	if err != nil {
		logging.Error("app", err, "event bus stopped with error")
	}
	return err
}
