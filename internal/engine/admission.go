package engine

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then an in-flight slot.
// Returns a release func to be deferred.
func (e *Engine) beginGeneration(ctx context.Context) (func(), error) {
	timer := time.NewTimer(e.cfg.MaxWait)
	defer timer.Stop()

	// Try to reserve a queue slot with timeout
	select {
	case e.queueCh <- struct{}{}:
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "generation queue full"}
	}

	// Wait to acquire an in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-e.queueCh
		}
	}()
	select {
	case e.genCh <- struct{}{}:
		acquired = true
		return func() { <-e.genCh; <-e.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "timed out waiting for a generation slot"}
	}
}
