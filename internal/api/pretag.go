package api

import (
	"context"

	"github.com/revq/revq/common"
	"github.com/revq/revq/pkg/revlib"
)

func pretagResult(pr revlib.PretagProgress) *common.PretagResult {
	res := &common.PretagResult{
		State:     pr.State.String(),
		Processed: pr.Processed,
		Total:     pr.Total,
		LastID:    string(pr.LastID),
	}
	for _, id := range pr.Skipped {
		res.Skipped = append(res.Skipped, string(id))
	}
	return res
}

// pretagRun starts a background pass bound to the daemon lifetime, not to
// this request. Progress is polled via pretag.progress.
func (a *Api) pretagRun(_ context.Context) (*common.PretagResult, error) {
	if err := a.pretagger.Start(a.ctx); err != nil {
		return nil, rpcError(err)
	}
	a.log.Info("pretagging pass started")
	return pretagResult(a.pretagger.Progress()), nil
}

func (a *Api) pretagCancel(_ context.Context) (*common.EmptyResult, error) {
	if err := a.pretagger.Cancel(); err != nil {
		return nil, rpcError(err)
	}
	a.log.Info("pretagging pass cancel requested")
	return &common.EmptyResult{}, nil
}

func (a *Api) pretagProgress(_ context.Context) (*common.PretagResult, error) {
	return pretagResult(a.pretagger.Progress()), nil
}
