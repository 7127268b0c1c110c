package history

import (
	"context"
	"time"
)

// defaultSweepInterval is the scheduler's hourly cadence ("A scheduler
// runs delete_older_than hourly when isAutoClearSettingsEnabled is
// true").
const defaultSweepInterval = time.Hour

// StartScheduler launches the single background ticker that runs the
// retention sweep on a fixed cadence, independent of the insert-counter
// trigger in afterInsert. It returns a stop function that halts the
// ticker; the caller is expected to call it once during shutdown.
func (e *Engine) StartScheduler(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(defaultSweepInterval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if err := e.RunScheduledRetention(); err != nil {
					e.log.Errorw("scheduled retention sweep failed", "error", err)
				}
			}
		}
	}()

	var once bool
	return func() {
		if once {
			return
		}
		once = true
		close(done)
	}
}
