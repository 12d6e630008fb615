package daemon

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/revq/revq/pkg/logger"
	"github.com/revq/revq/pkg/revlib"
)

// maxSleepCap bounds each timer sleep so clock adjustments and very
// distant cron ticks are re-evaluated periodically.
const maxSleepCap = 60 * time.Second

// runRefreshLoop re-runs the pretagging pass on the configured cron
// schedule. A tick that lands while a pass is still walking is skipped;
// the next tick picks up any drift.
func runRefreshLoop(ctx context.Context, log logger.Logger, cronExpr string, p *revlib.Pretagger) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		next, err := gronx.NextTickAfter(cronExpr, time.Now(), false)
		if err != nil {
			log.Error("refresh loop: bad cron expression %q: %v", cronExpr, err)
			return
		}
		for {
			dur := time.Until(next)
			if dur <= 0 {
				break
			}
			if dur > maxSleepCap {
				dur = maxSleepCap
			}
			timer.Reset(dur)
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}

		switch err := p.Start(ctx); err {
		case nil:
			log.Info("scheduled pretagging refresh started")
		case revlib.ErrPretagRunning:
			log.Warning("scheduled pretagging refresh skipped: pass still running")
		default:
			log.Error("scheduled pretagging refresh: %v", err)
			return
		}
	}
}
