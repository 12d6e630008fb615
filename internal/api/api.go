// Package api wires the revq scheduling core to the daemon's JSON-RPC
// surface: one handler per exposed method, with revlib errors mapped to
// distinct JSON-RPC error codes so presentation layers can explain
// rejections.
package api

import (
	"context"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"

	"github.com/revq/revq/common"
	"github.com/revq/revq/pkg/logger"
	"github.com/revq/revq/pkg/revlib"
)

// JSON-RPC error codes for scheduler operations.
const (
	codeNotFound        = jrpc2.Code(-32001)
	codeInvalidRange    = jrpc2.Code(-32002)
	codeInvalidInterval = jrpc2.Code(-32003)
	codeOutOfOrder      = jrpc2.Code(-32004)
	codeCyclicHierarchy = jrpc2.Code(-32005)
	codeKindConflict    = jrpc2.Code(-32006)
	codePretag          = jrpc2.Code(-32007)
	codeInvalidParams   = jrpc2.Code(-32602)
)

// BuildInfo identifies the daemon build in system.getVersion.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildType string
}

// Api holds the method handlers of the daemon.
type Api struct {
	// ctx is the daemon lifetime context; background passes started by
	// pretag.run are bound to it, not to the request.
	ctx       context.Context
	log       logger.Logger
	store     *revlib.Store
	ranker    *revlib.Ranker
	pretagger *revlib.Pretagger
	build     BuildInfo
}

// NewApi creates the handler set over an assembled scheduling core.
func NewApi(ctx context.Context, l logger.Logger, store *revlib.Store, ranker *revlib.Ranker, pretagger *revlib.Pretagger, build BuildInfo) *Api {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Api{
		ctx:       ctx,
		log:       l,
		store:     store,
		ranker:    ranker,
		pretagger: pretagger,
		build:     build,
	}
}

// Methods returns the daemon's JSON-RPC method map.
func (a *Api) Methods() handler.Map {
	return handler.Map{
		common.MethodSystemVersion: handler.New(a.systemVersion),

		common.MethodNodeGet:       handler.New(a.nodeGet),
		common.MethodNodeTrack:     handler.New(a.nodeTrack),
		common.MethodNodeRemove:    handler.New(a.nodeRemove),
		common.MethodNodeSetParent: handler.New(a.nodeSetParent),

		common.MethodPrioritySet:   handler.New(a.prioritySet),
		common.MethodPriorityClear: handler.New(a.priorityClear),

		common.MethodReviewComplete: handler.New(a.reviewComplete),

		common.MethodQueueDue:    handler.New(a.queueDue),
		common.MethodQueueShield: handler.New(a.queueShield),

		common.MethodPretagRun:      handler.New(a.pretagRun),
		common.MethodPretagCancel:   handler.New(a.pretagCancel),
		common.MethodPretagProgress: handler.New(a.pretagProgress),
	}
}

// Close releases the scheduling core.
func (a *Api) Close() error {
	return a.store.Close()
}

func (a *Api) systemVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   a.build.Version,
		Commit:    a.build.Commit,
		BuildType: a.build.BuildType,
	}, nil
}

// rpcError converts a revlib error into a coded JSON-RPC error. The
// message keeps the library wording so clients can surface it directly.
func rpcError(err error) error {
	code := jrpc2.InternalError
	switch {
	case errors.Is(err, revlib.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, revlib.ErrInvalidRange):
		code = codeInvalidRange
	case errors.Is(err, revlib.ErrInvalidInterval):
		code = codeInvalidInterval
	case errors.Is(err, revlib.ErrOutOfOrder):
		code = codeOutOfOrder
	case errors.Is(err, revlib.ErrCyclicHierarchy):
		code = codeCyclicHierarchy
	case errors.Is(err, revlib.ErrKindConflict):
		code = codeKindConflict
	case errors.Is(err, revlib.ErrPretagRunning),
		errors.Is(err, revlib.ErrPretagLightMode),
		errors.Is(err, revlib.ErrPretagNotRunning):
		code = codePretag
	}
	return &jrpc2.Error{Code: code, Message: err.Error()}
}

func paramError(msg string) error {
	return &jrpc2.Error{Code: codeInvalidParams, Message: msg}
}
