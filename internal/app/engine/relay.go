package engine

import (
	"context"
	"time"

	"github.com/muhammadchandra19/token-exchange/pkg/logger"
)

// runRelay publishes the outbox on every tick until it is empty.
func (e *Engine) runRelay() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.RelayInterval)
	defer ticker.Stop()

	e.logger.Info("Starting event relay", logger.Field{Key: "batch_size", Value: e.options.RelayBatchSize})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Event relay shutting down")
			return
		case <-ticker.C:
			if err := e.drain(e.ctx); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "relay"})
			}
		}
	}
}

// Relay publishes one batch of pending events and marks them published. It
// returns how many were published. A crash between publish and mark causes a
// redelivery, never a loss.
func (e *Engine) Relay(ctx context.Context) (int, error) {
	e.relayMu.Lock()
	defer e.relayMu.Unlock()

	events, err := e.repo.PendingEvents(ctx, e.options.RelayBatchSize)
	if err != nil || len(events) == 0 {
		return 0, err
	}

	if err := e.publisher.Publish(ctx, events); err != nil {
		return 0, err
	}

	seqs := make([]uint64, len(events))
	for i, ev := range events {
		seqs[i] = ev.Seq
	}
	if err := e.repo.MarkPublished(ctx, seqs); err != nil {
		return 0, err
	}

	e.logger.DebugContext(ctx, "Events relayed",
		logger.Field{Key: "first_seq", Value: seqs[0]},
		logger.Field{Key: "count", Value: len(seqs)},
	)
	return len(events), nil
}

func (e *Engine) drain(ctx context.Context) error {
	for {
		n, err := e.Relay(ctx)
		if err != nil {
			return err
		}
		if n == 0 || n < e.options.RelayBatchSize {
			return nil
		}
	}
}
