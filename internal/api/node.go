package api

import (
	"context"

	"github.com/revq/revq/common"
	"github.com/revq/revq/pkg/revlib"
)

// nodeResult flattens a store snapshot into its wire form.
func nodeResult(st revlib.NodeState) *common.NodeResult {
	res := &common.NodeResult{
		ID:                string(st.ID),
		Kind:              st.Kind.String(),
		Parent:            string(st.ParentID),
		ExplicitPriority:  st.ExplicitPriority,
		EffectivePriority: st.EffectivePriority,
		NextDueAt:         st.NextDueAt,
	}
	for _, rep := range st.History {
		res.History = append(res.History, common.Rep{At: rep.At, Interval: rep.Interval})
	}
	return res
}

func (a *Api) nodeGet(_ context.Context, p *common.NodeParam) (*common.NodeResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	st, err := a.store.Get(revlib.NodeID(p.ID))
	if err != nil {
		return nil, rpcError(err)
	}
	return nodeResult(st), nil
}

func (a *Api) nodeTrack(_ context.Context, p *common.TrackParams) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	kind, ok := revlib.ParseKind(p.Kind)
	if !ok || kind == revlib.KindAny {
		return nil, paramError("kind must be incremental or flashcard")
	}
	if err := a.store.Track(revlib.NodeID(p.ID), kind, revlib.NodeID(p.Parent)); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (a *Api) nodeRemove(_ context.Context, p *common.NodeParam) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	if err := a.store.Remove(revlib.NodeID(p.ID)); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (a *Api) nodeSetParent(_ context.Context, p *common.SetParentParams) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	if err := a.store.SetParent(revlib.NodeID(p.ID), revlib.NodeID(p.Parent)); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (a *Api) prioritySet(_ context.Context, p *common.SetPriorityParams) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	var err error
	if p.Value == nil {
		err = a.store.ClearExplicitPriority(revlib.NodeID(p.ID))
	} else {
		err = a.store.SetExplicitPriority(revlib.NodeID(p.ID), *p.Value)
	}
	if err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}

func (a *Api) priorityClear(_ context.Context, p *common.NodeParam) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, paramError("missing required param: id")
	}
	if err := a.store.ClearExplicitPriority(revlib.NodeID(p.ID)); err != nil {
		return nil, rpcError(err)
	}
	return &common.EmptyResult{}, nil
}
