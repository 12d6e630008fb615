package revqcli

import (
	"context"
	"time"

	"github.com/revq/revq/common"
)

// Version reports the daemon's build information.
func (c *Client) Version(ctx context.Context) (*common.VersionResult, error) {
	var res common.VersionResult
	if err := c.rpc.CallResult(ctx, common.MethodSystemVersion, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Get fetches a node snapshot with its effective priority resolved.
func (c *Client) Get(ctx context.Context, id string) (*common.NodeResult, error) {
	var res common.NodeResult
	err := c.rpc.CallResult(ctx, common.MethodNodeGet, &common.NodeParam{ID: id}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Track registers a node for scheduling. kind is "incremental" or
// "flashcard"; parent may be empty.
func (c *Client) Track(ctx context.Context, id, kind, parent string) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodNodeTrack, &common.TrackParams{
		ID:     id,
		Kind:   kind,
		Parent: parent,
	}, &res)
}

// Remove discards all scheduling state for a node.
func (c *Client) Remove(ctx context.Context, id string) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodNodeRemove, &common.NodeParam{ID: id}, &res)
}

// SetParent rewires a node's inheritance relation.
func (c *Client) SetParent(ctx context.Context, id, parent string) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodNodeSetParent, &common.SetParentParams{
		ID:     id,
		Parent: parent,
	}, &res)
}

// SetPriority assigns an explicit priority in [0, 100].
func (c *Client) SetPriority(ctx context.Context, id string, value int) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodPrioritySet, &common.SetPriorityParams{
		ID:    id,
		Value: &value,
	}, &res)
}

// ClearPriority reverts a node to inherited priority.
func (c *Client) ClearPriority(ctx context.Context, id string) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodPriorityClear, &common.NodeParam{ID: id}, &res)
}

// CompleteReview records a finished repetition and returns the advanced
// due time. A zero now uses the daemon's clock.
func (c *Client) CompleteReview(ctx context.Context, id string, now time.Time) (*common.ReviewResult, error) {
	var res common.ReviewResult
	err := c.rpc.CallResult(ctx, common.MethodReviewComplete, &common.ReviewParams{
		ID:  id,
		Now: now,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Due returns the ranked due-set. kind may be empty for both kinds.
func (c *Client) Due(ctx context.Context, now time.Time, kind string) (*common.DueResult, error) {
	var res common.DueResult
	err := c.rpc.CallResult(ctx, common.MethodQueueDue, &common.DueParams{
		Now:  now,
		Kind: kind,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Shield returns the top-k most urgent due items. topK zero uses the
// daemon's configured value.
func (c *Client) Shield(ctx context.Context, now time.Time, topK int) (*common.DueResult, error) {
	var res common.DueResult
	err := c.rpc.CallResult(ctx, common.MethodQueueShield, &common.DueParams{
		Now:  now,
		TopK: topK,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// PretagRun starts a pretagging pass and returns its initial progress.
func (c *Client) PretagRun(ctx context.Context) (*common.PretagResult, error) {
	var res common.PretagResult
	if err := c.rpc.CallResult(ctx, common.MethodPretagRun, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PretagCancel requests a cooperative stop of the running pass.
func (c *Client) PretagCancel(ctx context.Context) error {
	var res common.EmptyResult
	return c.rpc.CallResult(ctx, common.MethodPretagCancel, nil, &res)
}

// PretagProgress polls the state of the pretagging worker.
func (c *Client) PretagProgress(ctx context.Context) (*common.PretagResult, error) {
	var res common.PretagResult
	if err := c.rpc.CallResult(ctx, common.MethodPretagProgress, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
