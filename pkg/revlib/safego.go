package revlib

import (
	"errors"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/revq/revq/pkg/logger"
)

// safeGo runs fn in a goroutine with panic recovery.
// If wg is non-nil, it's decremented on completion (normal or panic).
// If l is non-nil, panics are logged with stack traces.
// If onPanic is non-nil, it's called with the recovered value.
func safeGo(l logger.Logger, wg *sync.WaitGroup, context string, onPanic func(r interface{}), fn func()) {
	go func() {
		if wg != nil {
			defer wg.Done()
		}
		defer func() {
			if r := recover(); r != nil {
				if l != nil {
					l.Error("PANIC [%s]: %v\n%s", context, r, debug.Stack())
				}
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}

// runtimeGosched is the worker's cooperative yield point, split out so the
// intent reads at the call site.
func runtimeGosched() {
	runtime.Gosched()
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
