package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logagrip/internal/cwlogs"
	"logagrip/internal/domain"
	"logagrip/internal/eventbus"
	"logagrip/internal/preset"
	"logagrip/internal/profile"
)

type fakeQueue struct {
	mu        sync.Mutex
	offered   []domain.Action
	published chan domain.Action
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{published: make(chan domain.Action, 10)}
}

func (q *fakeQueue) Offer(action domain.Action) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.offered = append(q.offered, action)
	return nil
}

func (q *fakeQueue) Publish(ctx context.Context, action domain.Action) error {
	q.published <- action
	return nil
}

// take returns and forgets the offered actions
func (q *fakeQueue) take() []domain.Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.offered
	q.offered = nil
	return out
}

func (q *fakeQueue) next(t *testing.T) domain.Action {
	t.Helper()
	select {
	case a := <-q.published:
		return a
	case <-time.After(time.Second):
		t.Fatal("no action published")
		return nil
	}
}

type fakeFetcher struct {
	mu       sync.Mutex
	requests []cwlogs.PageRequest
	respond  func(req cwlogs.PageRequest) domain.Action
}

func (f *fakeFetcher) FetchPage(ctx context.Context, req cwlogs.PageRequest) domain.Action {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeFetcher) last() cwlogs.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func group(name string) domain.LogGroup {
	return domain.LogGroup{ARN: "arn:" + name, Name: name, CreationTime: time.Unix(0, 0)}
}

func receiveAll(groups ...domain.LogGroup) func(cwlogs.PageRequest) domain.Action {
	return func(req cwlogs.PageRequest) domain.Action {
		return domain.ReceiveLogGroupsAction{
			Generation: req.Generation,
			Profile:    req.Profile,
			Groups:     groups,
			Cursor:     domain.CursorState{Prefix: req.Cursor.Prefix, Exhausted: true},
		}
	}
}

func newTestApp(profiles ...domain.ProfileName) (*App, *fakeQueue, *fakeFetcher) {
	data := NewData(preset.NewStore(preset.Defaults()...), profile.NewStore(profiles...), true)
	queue := newFakeQueue()
	fetcher := &fakeFetcher{respond: receiveAll()}
	return New(data, domain.Char('q'), eventbus.NewRunState(), queue, fetcher), queue, fetcher
}

func press(a *App, keys ...domain.Key) {
	for _, k := range keys {
		a.HandleKey(k)
	}
}

func typeText(a *App, s string) {
	for _, r := range s {
		a.HandleKey(domain.Char(r))
	}
}

func TestRequestThenReceiveFillsGroups(t *testing.T) {
	a, queue, fetcher := newTestApp("dev", "prod")
	fetcher.respond = receiveAll(group("b"), group("a"))
	ctx := context.Background()

	// presets: select the first one
	press(a, domain.Down, domain.Enter, domain.Down, domain.Esc)
	// profiles: select the first one and open it
	press(a, domain.Down, domain.Enter, domain.Down, domain.Enter)

	offered := queue.take()
	require.Len(t, offered, 1)
	request, ok := offered[0].(domain.RequestLogGroupsAction)
	require.True(t, ok, "got %T", offered[0])
	assert.Equal(t, domain.ProfileName("dev"), request.Profile)
	require.NotNil(t, request.Preset)
	assert.Equal(t, "project-prd", request.Preset.Name)
	assert.Equal(t, RegionGroups, a.Shell().Selection())

	a.HandleAction(ctx, request)
	receive := queue.next(t)
	a.HandleAction(ctx, receive)
	a.Wait()

	assert.Equal(t, []string{"a", "b"}, displayNames(GroupsByName.Apply(a.Data().Groups)))
	profileName, cursor, listing := a.Cursor()
	assert.True(t, listing)
	assert.Equal(t, domain.ProfileName("dev"), profileName)
	assert.True(t, cursor.Exhausted)
	assert.Equal(t, "receive 2 log groups", a.Status())
}

func TestExecuteWithoutProfileDoesNothing(t *testing.T) {
	a, queue, _ := newTestApp()

	press(a, domain.Down, domain.Down) // Profiles
	press(a, domain.Enter)             // focus
	press(a, domain.Down)              // empty region
	assert.Equal(t, -1, a.Shell().Cursor(RegionProfiles))

	press(a, domain.Enter)
	assert.Empty(t, queue.take())
	assert.Equal(t, RegionProfiles, a.Shell().Selection())
}

func TestEnterOnGroupsDoesNothing(t *testing.T) {
	a, queue, _ := newTestApp("dev")
	press(a, domain.Up, domain.Enter, domain.Enter)

	assert.Equal(t, RegionGroups, a.Shell().Selection())
	assert.Empty(t, queue.take())
}

func TestHeaderEditing(t *testing.T) {
	a, queue, _ := newTestApp("dev")

	press(a, domain.Char('/'))
	require.Equal(t, FocusHeader, a.Focus())

	typeText(a, "prod")
	press(a, domain.Left, domain.Left, domain.Char('X'), domain.BackSpace, domain.BackSpace)
	press(a, domain.Right, domain.Right, domain.Right)
	typeText(a, "!")
	assert.Equal(t, "pod!", a.Data().Search.Query())
	assert.Empty(t, queue.take(), "header keys never reach the shell")

	press(a, domain.Enter)
	assert.Equal(t, FocusShell, a.Focus())
	assert.Equal(t, []domain.Action{domain.SearchAction{Query: "pod!"}}, queue.take())
}

func TestHeaderEscapeDoesNotSearch(t *testing.T) {
	a, queue, _ := newTestApp()
	press(a, domain.Char('/'))
	typeText(a, "q")
	press(a, domain.Esc)

	assert.Equal(t, FocusShell, a.Focus())
	assert.Empty(t, queue.take())
	assert.True(t, a.run.IsRunning(), "q typed in the header is text")
}

func TestSearchFiltersSelectedRegion(t *testing.T) {
	a, _, _ := newTestApp("dev", "prod", "prod-admin")
	ctx := context.Background()

	press(a, domain.Down, domain.Down) // Profiles
	a.HandleAction(ctx, domain.SearchAction{Query: "prod"})
	assert.Equal(t, []domain.ProfileName{"prod", "prod-admin"}, a.Data().Profiles.Items())
	assert.Equal(t, `Profiles ("prod")`, a.Data().Profiles.Label())

	a.HandleAction(ctx, domain.SearchAction{Query: ""})
	assert.Equal(t, 3, a.Data().Profiles.Len())
	assert.Equal(t, "Profiles", a.Data().Profiles.Label())

	press(a, domain.Up) // Presets
	a.HandleAction(ctx, domain.SearchAction{Query: "project"})
	assert.Equal(t, 3, a.Data().Presets.Len())
}

func TestSearchClampsFocusedCursor(t *testing.T) {
	a, queue, _ := newTestApp("a", "b", "c")
	ctx := context.Background()

	press(a, domain.Down, domain.Down, domain.Enter) // focus Profiles
	press(a, domain.Up, domain.Up)                   // c
	require.Equal(t, 2, a.Shell().Cursor(RegionProfiles))

	a.HandleAction(ctx, domain.SearchAction{Query: "a"})
	s := a.Snapshot()
	assert.Equal(t, []string{"a"}, s.Profiles.Items)
	assert.Equal(t, 0, s.Profiles.Selected)

	press(a, domain.Enter)
	offered := queue.take()
	require.Len(t, offered, 1)
	assert.Equal(t, domain.ProfileName("a"), offered[0].(domain.RequestLogGroupsAction).Profile)

	press(a, domain.Esc, domain.Up, domain.Up, domain.Enter) // focus Presets
	press(a, domain.Down)                                   // project-prd
	require.Equal(t, 0, a.Shell().Cursor(RegionPresets))
	a.HandleAction(ctx, domain.SearchAction{Query: "nothing"})
	assert.Equal(t, -1, a.Snapshot().Presets.Selected)
}

func TestReceiveClampsGroupCursor(t *testing.T) {
	a, queue, fetcher := newTestApp("dev")
	ctx := context.Background()
	fetcher.respond = receiveAll(group("a"), group("b"), group("c"))

	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	a.HandleAction(ctx, queue.next(t))
	press(a, domain.Up, domain.Enter, domain.Up, domain.Up)
	require.Equal(t, 2, a.Shell().Cursor(RegionGroups))

	fetcher.respond = receiveAll(group("a"))
	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	a.HandleAction(ctx, queue.next(t))
	assert.Equal(t, 0, a.Snapshot().Groups.Selected)
	g, ok := a.Shell().SelectedGroup(a.Data())
	require.True(t, ok)
	assert.Equal(t, "a", g.Name)

	fetcher.respond = receiveAll()
	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	a.HandleAction(ctx, queue.next(t))
	a.Wait()
	assert.Equal(t, -1, a.Snapshot().Groups.Selected)
}

func TestSearchOnGroupsRequestsAnonymousPreset(t *testing.T) {
	a, queue, _ := newTestApp("dev")
	press(a, domain.Down, domain.Down, domain.Enter, domain.Down, domain.Esc, domain.Down)
	require.Equal(t, RegionGroups, a.Shell().Selection())

	a.HandleAction(context.Background(), domain.SearchAction{Query: "/aws/lambda"})

	offered := queue.take()
	require.Len(t, offered, 1)
	request := offered[0].(domain.RequestLogGroupsAction)
	assert.Equal(t, domain.ProfileName("dev"), request.Profile)
	assert.Equal(t, "anonymous", request.Preset.Name)
	assert.Equal(t, "/aws/lambda", request.Preset.Prefix())
}

func TestSearchOnGroupsWithoutProfile(t *testing.T) {
	a, queue, _ := newTestApp("dev")
	press(a, domain.Up)

	a.HandleAction(context.Background(), domain.SearchAction{Query: "x"})
	assert.Empty(t, queue.take())
	assert.Contains(t, a.Status(), "select a profile")
}

func TestStaleReceiveIsDropped(t *testing.T) {
	a, queue, _ := newTestApp("dev")
	ctx := context.Background()

	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	first := queue.next(t)
	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	second := queue.next(t)
	a.Wait()

	stale := first.(domain.ReceiveLogGroupsAction)
	stale.Groups = []domain.LogGroup{group("old")}
	a.HandleAction(ctx, stale)
	assert.Equal(t, 0, a.Data().Groups.Len())
	assert.Contains(t, a.Status(), "stale")

	current := second.(domain.ReceiveLogGroupsAction)
	current.Groups = []domain.LogGroup{group("new")}
	a.HandleAction(ctx, current)
	assert.Equal(t, []string{"new"}, displayNames(a.Data().Groups.Items()))
}

func TestErrorKeepsGroups(t *testing.T) {
	a, _, _ := newTestApp("dev")
	a.Data().Groups.Extend(group("kept"))

	a.HandleAction(context.Background(), domain.NewErrorAction(errors.New("failed to describe log groups: throttled")))

	assert.Equal(t, 1, a.Data().Groups.Len())
	assert.Equal(t, "failed to describe log groups: throttled", a.Status())
	logs := a.Data().Debug.Logs()
	require.NotEmpty(t, logs)
	assert.Equal(t, "failed to describe log groups: throttled", logs[len(logs)-1].Msg)
}

func TestStaleErrorIsDropped(t *testing.T) {
	a, queue, fetcher := newTestApp("dev")
	ctx := context.Background()
	fetcher.respond = func(req cwlogs.PageRequest) domain.Action {
		action := domain.NewErrorAction(errors.New("throttled"))
		action.Generation = req.Generation
		return action
	}

	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	first := queue.next(t)
	fetcher.respond = receiveAll(group("new"))
	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	second := queue.next(t)
	a.Wait()

	a.HandleAction(ctx, first)
	assert.Contains(t, a.Status(), "drop stale error (generation 1, current 2)")
	assert.True(t, a.Snapshot().Groups.Loading, "a stale error does not end the current fetch")

	a.HandleAction(ctx, second)
	assert.False(t, a.Snapshot().Groups.Loading)
	assert.Equal(t, []string{"new"}, displayNames(a.Data().Groups.Items()))
}

func TestErrorWithoutDebugPane(t *testing.T) {
	data := NewData(preset.NewStore(), profile.NewStore("dev"), false)
	a := New(data, domain.Char('q'), eventbus.NewRunState(), newFakeQueue(), &fakeFetcher{respond: receiveAll()})
	require.Nil(t, a.sink)

	a.HandleAction(context.Background(), domain.NewErrorAction(errors.New("boom")))
	assert.Equal(t, "boom", a.Status())
}

func TestPaging(t *testing.T) {
	a, queue, fetcher := newTestApp("dev")
	ctx := context.Background()
	fetcher.respond = func(req cwlogs.PageRequest) domain.Action {
		return domain.ReceiveLogGroupsAction{
			Generation: req.Generation,
			Profile:    req.Profile,
			Groups:     []domain.LogGroup{group("g")},
			Cursor:     domain.CursorState{PageToken: req.Cursor.NextToken, NextToken: aws.String("t2")},
		}
	}

	a.HandleAction(ctx, domain.NextLogGroupsAction{})
	assert.Equal(t, "no log group listing yet", a.Status())

	a.HandleAction(ctx, domain.RequestLogGroupsAction{Profile: "dev"})
	a.HandleAction(ctx, queue.next(t))

	a.HandleAction(ctx, domain.NextLogGroupsAction{})
	a.HandleAction(ctx, queue.next(t))
	a.Wait()
	next := fetcher.last()
	assert.False(t, next.Refresh)
	assert.Equal(t, "t2", aws.ToString(next.Cursor.NextToken))
	assert.Equal(t, uint64(2), next.Generation)

	a.HandleAction(ctx, domain.RefreshLogGroupsAction{})
	a.HandleAction(ctx, queue.next(t))
	a.Wait()
	assert.True(t, fetcher.last().Refresh)

	fetcher.respond = receiveAll()
	a.HandleAction(ctx, domain.NextLogGroupsAction{})
	a.HandleAction(ctx, queue.next(t))
	a.Wait()
	calls := len(fetcher.requests)

	a.HandleAction(ctx, domain.NextLogGroupsAction{})
	assert.Equal(t, "no more log groups", a.Status())
	assert.Len(t, fetcher.requests, calls)
}

func TestPagingKeysOnlyOnGroups(t *testing.T) {
	a, queue, _ := newTestApp("dev")

	press(a, domain.Char('n'), domain.Char('r'))
	assert.Empty(t, queue.take())

	press(a, domain.Up, domain.Char('n'), domain.Char('r'))
	assert.Equal(t, []domain.Action{domain.NextLogGroupsAction{}, domain.RefreshLogGroupsAction{}}, queue.take())
}

func TestSortKeyCyclesGroupOrder(t *testing.T) {
	a, _, _ := newTestApp()
	for _, want := range []GroupOrder{GroupsByCreatedAsc, GroupsByCreatedDesc, GroupsBySizeAsc, GroupsBySizeDesc, GroupsByName} {
		press(a, domain.Char('s'))
		assert.Equal(t, want, a.Shell().GroupOrder())
	}
}

func TestSortKeyOnPresetsTogglesPresetOrder(t *testing.T) {
	a, _, _ := newTestApp()
	press(a, domain.Down) // Presets

	press(a, domain.Char('s'))
	assert.Equal(t, PresetsByName, a.Shell().PresetOrder())
	assert.Equal(t, GroupsByName, a.Shell().GroupOrder(), "group order is untouched")
	assert.Equal(t, "order presets by name", a.Status())
	assert.Equal(t, []string{"glue", "lambda", "project-dev", "project-prd", "project-stg"}, a.Snapshot().Presets.Items)

	press(a, domain.Char('s'))
	assert.Equal(t, "order presets by config", a.Status())
	assert.Equal(t, "project-prd", a.Snapshot().Presets.Items[0])
}

func TestQuitKey(t *testing.T) {
	a, _, _ := newTestApp()
	press(a, domain.Char('x'))
	assert.True(t, a.run.IsRunning())

	press(a, domain.Char('q'))
	assert.False(t, a.run.IsRunning())
}

func TestSessionFocusIsInert(t *testing.T) {
	a, queue, _ := newTestApp("dev")
	a.focus = FocusSession

	press(a, domain.Down, domain.Char('q'), domain.Char('/'))
	assert.Equal(t, RegionNone, a.Shell().Selection())
	assert.True(t, a.run.IsRunning())
	assert.Equal(t, FocusSession, a.Focus())
	assert.Empty(t, queue.take())
	assert.Len(t, a.Data().Debug.Keys(), 3)
}

func TestSnapshot(t *testing.T) {
	a, _, _ := newTestApp("dev")
	press(a, domain.Down, domain.Enter, domain.Down)

	s := a.Snapshot()
	assert.Equal(t, RegionPresets, s.Selection)
	assert.True(t, s.Focused)
	assert.Equal(t, 0, s.Presets.Selected)
	assert.Equal(t, -1, s.Profiles.Selected)
	assert.Equal(t, []string{"dev"}, s.Profiles.Items)
	assert.Equal(t, "Groups", s.Groups.Label)
	require.NotNil(t, s.Debug)
	require.Len(t, s.Debug.Keys, 3)
	assert.Equal(t, uint64(3), s.Debug.Keys[0].No, "newest key first")
}
