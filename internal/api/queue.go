package api

import (
	"context"
	"time"

	"github.com/revq/revq/common"
	"github.com/revq/revq/pkg/revlib"
)

func dueResult(items []revlib.DueItem) *common.DueResult {
	res := &common.DueResult{Items: make([]common.DueItem, 0, len(items))}
	for _, it := range items {
		res.Items = append(res.Items, common.DueItem{
			ID:       string(it.ID),
			Kind:     it.Kind.String(),
			Priority: it.Priority,
			DueAt:    it.DueAt,
		})
	}
	return res
}

func (a *Api) queueDue(_ context.Context, p *common.DueParams) (*common.DueResult, error) {
	kind, ok := revlib.ParseKind(p.Kind)
	if !ok {
		return nil, paramError("kind must be incremental, flashcard or any")
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	return dueResult(a.ranker.DueSet(now, kind).Items()), nil
}

func (a *Api) queueShield(_ context.Context, p *common.DueParams) (*common.DueResult, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	k := p.TopK
	if k == 0 {
		k = a.store.Config().ShieldTopK
	}
	if k < 1 {
		return nil, paramError("topK must be at least 1")
	}
	return dueResult(a.ranker.Shield(now, k)), nil
}

func (a *Api) reviewComplete(_ context.Context, p *common.ReviewParams) (*common.ReviewResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	due, err := a.store.CompleteRepetition(revlib.NodeID(p.ID), now)
	if err != nil {
		return nil, rpcError(err)
	}
	st, err := a.store.Get(revlib.NodeID(p.ID))
	if err != nil {
		return nil, rpcError(err)
	}
	res := &common.ReviewResult{NextDueAt: due}
	if len(st.History) > 0 {
		res.Interval = st.History[len(st.History)-1].Interval
	}
	return res, nil
}
