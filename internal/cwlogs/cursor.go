package cwlogs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"logagrip/internal/domain"
)

// GroupCursor pages through DescribeLogGroups. It is Ready until a page comes
// back without a next token, then Exhausted for good.
type GroupCursor struct {
	client Client
	state  domain.CursorState
}

// NewGroupCursor starts a listing filtered by the preset's prefix
func NewGroupCursor(client Client, preset *domain.Preset) *GroupCursor {
	var state domain.CursorState
	if preset != nil && preset.GroupNamePrefix != nil {
		prefix := *preset.GroupNamePrefix
		state.Prefix = &prefix
	}
	return &GroupCursor{client: client, state: state}
}

// ResumeGroupCursor continues a listing from a saved state
func ResumeGroupCursor(client Client, state domain.CursorState) *GroupCursor {
	return &GroupCursor{client: client, state: state}
}

// State returns the resumable position
func (c *GroupCursor) State() domain.CursorState {
	return c.state
}

// Exhausted reports whether the last page has been fetched
func (c *GroupCursor) Exhausted() bool {
	return c.state.Exhausted
}

// Next fetches the following page. Once exhausted it returns ok=false without
// calling the API. On error the cursor is left unchanged.
func (c *GroupCursor) Next(ctx context.Context) (groups []domain.LogGroup, ok bool, err error) {
	if c.state.Exhausted {
		return nil, false, nil
	}

	out, err := c.describe(ctx, c.state.NextToken)
	if err != nil {
		return nil, false, err
	}
	groups, err = MapLogGroups(out.LogGroups)
	if err != nil {
		return nil, false, err
	}

	c.state.PageToken = c.state.NextToken
	c.state.NextToken = out.NextToken
	c.state.Exhausted = out.NextToken == nil || *out.NextToken == ""
	return groups, true, nil
}

// Refresh reissues the request for the current page without moving the cursor
func (c *GroupCursor) Refresh(ctx context.Context) ([]domain.LogGroup, error) {
	out, err := c.describe(ctx, c.state.PageToken)
	if err != nil {
		return nil, err
	}
	return MapLogGroups(out.LogGroups)
}

func (c *GroupCursor) describe(ctx context.Context, token *string) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	input := &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: c.state.Prefix,
		NextToken:          token,
	}
	out, err := c.client.DescribeLogGroups(ctx, input)
	if err != nil {
		return nil, &domain.RemoteTransportError{Op: "describe log groups", Err: err}
	}
	if out == nil {
		out = &cloudwatchlogs.DescribeLogGroupsOutput{LogGroups: []types.LogGroup{}}
	}
	return out, nil
}
