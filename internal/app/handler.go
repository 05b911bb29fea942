package app

import (
	"context"
	"fmt"
	"sync"

	"logagrip/internal/cwlogs"
	"logagrip/internal/domain"
	"logagrip/internal/eventbus"
	"logagrip/internal/logging"
	"logagrip/internal/preset"
)

// Focus says which part of the screen receives keys
type Focus int

const (
	FocusShell Focus = iota
	FocusHeader
	FocusSession
)

func (f Focus) String() string {
	switch f {
	case FocusHeader:
		return "Header"
	case FocusSession:
		return "Session"
	default:
		return "Shell"
	}
}

// ActionQueue accepts actions for the main loop
type ActionQueue interface {
	Offer(action domain.Action) error
	Publish(ctx context.Context, action domain.Action) error
}

// Fetcher runs one log group page request and reports the outcome as an action
type Fetcher interface {
	FetchPage(ctx context.Context, req cwlogs.PageRequest) domain.Action
}

// App routes keys by focus and reduces actions into browsing state. Only the
// main loop calls its methods; fetch goroutines talk back through the queue.
type App struct {
	data     *Data
	shell    *ShellState
	focus    Focus
	session  domain.SessionID
	quitKey  domain.Key
	run      *eventbus.RunState
	queue    ActionQueue
	fetcher  Fetcher
	renderer Renderer
	sink     logging.Sink

	generation uint64
	listing    bool
	profile    domain.ProfileName
	cursor     domain.CursorState
	loading    bool
	status     string

	fetches sync.WaitGroup
}

// New creates an app over data
func New(data *Data, quitKey domain.Key, run *eventbus.RunState, queue ActionQueue, fetcher Fetcher) *App {
	a := &App{
		data:    data,
		shell:   NewShellState(),
		quitKey: quitKey,
		run:     run,
		queue:   queue,
		fetcher: fetcher,
	}
	if data.Debug != nil {
		a.sink = data.Debug
	}
	return a
}

func (a *App) Data() *Data        { return a.data }
func (a *App) Shell() *ShellState { return a.shell }
func (a *App) Focus() Focus       { return a.focus }
func (a *App) Generation() uint64 { return a.generation }
func (a *App) Status() string     { return a.status }

// Cursor returns the state of the current log group listing
func (a *App) Cursor() (domain.ProfileName, domain.CursorState, bool) {
	return a.profile, a.cursor, a.listing
}

// Wait blocks until every spawned fetch has reported or given up
func (a *App) Wait() { a.fetches.Wait() }

// HandleEvent feeds one merged-stream event through the app. Ticks only matter
// to the renderer.
func (a *App) HandleEvent(ctx context.Context, e domain.Event) {
	switch e := e.(type) {
	case domain.InputEvent:
		a.HandleKey(e.Key)
	case domain.ActionEvent:
		a.HandleAction(ctx, e.Action)
	}
}

// HandleKey routes a key press to the focused part of the screen
func (a *App) HandleKey(key domain.Key) {
	if a.data.Debug != nil {
		a.data.Debug.AppendKey(key)
	}

	switch a.focus {
	case FocusShell:
		a.handleShellKey(key)
	case FocusHeader:
		a.handleHeaderKey(key)
	case FocusSession:
		// sessions take no keys yet
	}
}

func (a *App) handleShellKey(key domain.Key) {
	switch key {
	case a.quitKey:
		logging.Info("app", "quit requested")
		a.run.Stop()
	case domain.Up, domain.Char('k'):
		a.shell.SelectPrevious(a.data)
	case domain.Down, domain.Char('j'):
		a.shell.SelectNext(a.data)
	case domain.Enter:
		if !a.shell.HasFocus() {
			a.shell.SetFocus()
			return
		}
		if action := a.shell.ExecuteItem(a.data); action != nil {
			a.offer(action)
		}
	case domain.Esc:
		a.shell.ClearFocus()
	case domain.Char('/'):
		a.focus = FocusHeader
	case domain.Char('?'):
		if a.renderer != nil {
			a.renderer.ShowHelp()
		}
	case domain.Char('s'):
		if a.shell.Selection() == RegionPresets {
			order := a.shell.TogglePresetOrder(a.data)
			a.diag(fmt.Sprintf("order presets by %s", order))
			return
		}
		order := a.shell.CycleGroupOrder()
		a.diag(fmt.Sprintf("order log groups by %s", order))
	case domain.Char('n'):
		if a.shell.Selection() == RegionGroups {
			a.offer(domain.NextLogGroupsAction{})
		}
	case domain.Char('r'):
		if a.shell.Selection() == RegionGroups {
			a.offer(domain.RefreshLogGroupsAction{})
		}
	}
}

func (a *App) handleHeaderKey(key domain.Key) {
	switch key.Code {
	case domain.KeyChar:
		a.data.Search.Insert(key.Rune)
	case domain.KeyBackSpace:
		a.data.Search.DeleteBackward()
	case domain.KeyLeft:
		a.data.Search.Move(-1)
	case domain.KeyRight:
		a.data.Search.Move(1)
	case domain.KeyEnter:
		a.offer(domain.SearchAction{Query: a.data.Search.Query()})
		a.focus = FocusShell
	case domain.KeyEsc:
		a.focus = FocusShell
	}
}

// HandleAction reduces one action. Fetches it spawns inherit ctx.
func (a *App) HandleAction(ctx context.Context, action domain.Action) {
	switch act := action.(type) {
	case domain.SearchAction:
		a.onSearch(act.Query)
	case domain.RequestLogGroupsAction:
		a.onRequestLogGroups(ctx, act)
	case domain.NextLogGroupsAction:
		a.onPage(ctx, false)
	case domain.RefreshLogGroupsAction:
		a.onPage(ctx, true)
	case domain.ReceiveLogGroupsAction:
		a.onReceiveLogGroups(act)
	case domain.ErrorAction:
		a.onError(act)
	default:
		logging.Warn("app", "unhandled action", "action", fmt.Sprintf("%T", action))
	}
}

func (a *App) onSearch(q string) {
	switch a.shell.Selection() {
	case RegionPresets:
		a.data.Presets.SetQuery(q)
		a.shell.Clamp(a.data, RegionPresets)
	case RegionProfiles:
		a.data.Profiles.SetQuery(q)
		a.shell.Clamp(a.data, RegionProfiles)
	case RegionGroups:
		profile, ok := a.shell.SelectedProfile(a.data)
		if !ok {
			a.diag("select a profile before searching log groups")
			return
		}
		p := preset.Anonymous(q)
		a.offer(domain.RequestLogGroupsAction{Profile: profile, Preset: &p})
	}
}

func (a *App) onRequestLogGroups(ctx context.Context, act domain.RequestLogGroupsAction) {
	presetName := "none"
	if act.Preset != nil {
		presetName = act.Preset.String()
	}
	a.diag(fmt.Sprintf("create new cursor with profile:%s, preset:%s", act.Profile, presetName))

	a.generation++
	req := cwlogs.NewRequest(a.generation, act.Profile, act.Preset)
	a.listing = true
	a.profile = act.Profile
	a.cursor = req.Cursor
	a.spawn(ctx, req)
}

func (a *App) onPage(ctx context.Context, refresh bool) {
	if !a.listing {
		a.diag("no log group listing yet")
		return
	}
	if !refresh && a.cursor.Exhausted {
		a.diag("no more log groups")
		return
	}

	a.generation++
	a.spawn(ctx, cwlogs.PageRequest{
		Generation: a.generation,
		Profile:    a.profile,
		Cursor:     a.cursor,
		Refresh:    refresh,
	})
}

// spawn runs req on its own goroutine, which publishes exactly one action
func (a *App) spawn(ctx context.Context, req cwlogs.PageRequest) {
	a.loading = true
	a.fetches.Add(1)
	go func() {
		defer a.fetches.Done()
		action := a.fetcher.FetchPage(ctx, req)
		if err := a.queue.Publish(ctx, action); err != nil {
			logging.Warn("app", "dropped fetch result", "generation", req.Generation, "error", err)
		}
	}()
}

func (a *App) onReceiveLogGroups(act domain.ReceiveLogGroupsAction) {
	if act.Generation != a.generation {
		a.diag(fmt.Sprintf("drop %d stale log groups (generation %d, current %d)", len(act.Groups), act.Generation, a.generation))
		return
	}
	a.loading = false
	a.diag(fmt.Sprintf("receive %d log groups", len(act.Groups)))

	a.data.Groups.Replace(act.Groups...)
	a.shell.Clamp(a.data, RegionGroups)
	a.profile = act.Profile
	a.cursor = act.Cursor
}

func (a *App) onError(act domain.ErrorAction) {
	if act.Generation != a.generation {
		logging.Warn("app", "stale fetch failed", "generation", act.Generation, "error", act.Err)
		a.diag(fmt.Sprintf("drop stale error (generation %d, current %d)", act.Generation, a.generation))
		return
	}
	a.loading = false
	logging.Error("app", act.Err, "background task failed")
	a.status = act.Message
	a.emit(act.Message)
}

// diag reports msg to the debug pane, the status line and the log
func (a *App) diag(msg string) {
	logging.Debug("app", msg)
	a.status = msg
	a.emit(msg)
}

func (a *App) emit(msg string) {
	if a.sink != nil {
		a.sink.Append(msg)
	}
}

func (a *App) offer(action domain.Action) {
	if err := a.queue.Offer(action); err != nil {
		logging.Error("app", err, "failed to queue action", "action", action.Type())
		a.status = err.Error()
	}
}
