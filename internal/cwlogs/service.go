package cwlogs

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"logagrip/internal/domain"
	"logagrip/internal/logging"
)

// PageRequest describes one page fetch handed to a background task
type PageRequest struct {
	Generation uint64
	Profile    domain.ProfileName
	Cursor     domain.CursorState
	Refresh    bool
}

// GroupService runs log group page fetches
type GroupService struct {
	factory    ClientFactory
	timeout    time.Duration
	workerPool chan struct{} // Semaphore for limiting concurrent API calls
}

// NewGroupService creates a service that fetches through factory
func NewGroupService(factory ClientFactory, timeout time.Duration) *GroupService {
	return &GroupService{
		factory:    factory,
		timeout:    timeout,
		workerPool: make(chan struct{}, 4),
	}
}

// NewRequest builds the request for the first page of a preset's groups
func NewRequest(generation uint64, profile domain.ProfileName, preset *domain.Preset) PageRequest {
	cursor := NewGroupCursor(nil, preset)
	return PageRequest{
		Generation: generation,
		Profile:    profile,
		Cursor:     cursor.State(),
	}
}

// FetchPage fetches a single page and converts the outcome into exactly one
// action: ReceiveLogGroupsAction on success, ErrorAction otherwise. Both carry
// the request's generation.
func (s *GroupService) FetchPage(ctx context.Context, req PageRequest) (action domain.Action) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("log group fetch panicked: %v", r)
			logging.Error("cwlogs", err, "fetch panicked", "stack", string(debug.Stack()))
			action = req.fail(err)
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-ctx.Done():
		return req.fail(&domain.RemoteTransportError{Op: "describe log groups", Err: ctx.Err()})
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	client, err := s.factory.Client(ctx, req.Profile)
	if err != nil {
		return req.fail(err)
	}

	cursor := ResumeGroupCursor(client, req.Cursor)
	var groups []domain.LogGroup
	if req.Refresh {
		groups, err = cursor.Refresh(ctx)
	} else {
		groups, _, err = cursor.Next(ctx)
	}
	if err != nil {
		return req.fail(err)
	}
	if groups == nil {
		groups = []domain.LogGroup{}
	}

	logging.Debug("cwlogs", "fetched log groups", "profile", req.Profile, "count", len(groups), "exhausted", cursor.Exhausted())
	return domain.ReceiveLogGroupsAction{
		Generation: req.Generation,
		Profile:    req.Profile,
		Groups:     groups,
		Cursor:     cursor.State(),
	}
}

func (req PageRequest) fail(err error) domain.ErrorAction {
	action := domain.NewErrorAction(err)
	action.Generation = req.Generation
	return action
}
