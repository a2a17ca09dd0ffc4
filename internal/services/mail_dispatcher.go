package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/peerassist/backend/internal/outbox"
)

// MailSender abstracts the SMTP transport.
type MailSender interface {
	Send(msg outbox.Message) error
}

// DispatcherConfig controls how frequently the outbox is drained.
type DispatcherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// MailDispatcher delivers queued notifications in the background.
// Delivery is best-effort: a message past the retry bound is dropped with
// a log line and never blocks or reverts a workflow transition.
type MailDispatcher struct {
	store  *outbox.Store
	sender MailSender
	logger *zap.Logger
	cron   *cron.Cron
	cfg    DispatcherConfig
}

func NewMailDispatcher(store *outbox.Store, sender MailSender, logger *zap.Logger, cfg DispatcherConfig) *MailDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &MailDispatcher{
		store:  store,
		sender: sender,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		if err := d.Drain(); err != nil {
			d.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return d
}

// Start launches the cron scheduler.
func (d *MailDispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("mail dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *MailDispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("mail dispatcher stopped")
}

// Drain delivers pending messages synchronously.
func (d *MailDispatcher) Drain() error {
	if d == nil || d.store == nil {
		return nil
	}

	messages, err := d.store.GetBatch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if err := d.sender.Send(msg); err != nil {
			d.logger.Error("failed to deliver notification",
				zap.String("message_id", msg.ID),
				zap.String("kind", msg.Kind),
				zap.Error(err))

			retry := msg
			retry.Retries++
			if retry.Retries >= d.cfg.MaxRetries {
				d.logger.Warn("dropping notification (max retries reached)", zap.String("message_id", msg.ID))
				if err := d.store.Remove(msg); err != nil {
					d.logger.Warn("failed to remove outbox message", zap.Error(err))
				}
				continue
			}
			// Requeue before removing the old entry: a crash in between
			// leaves a duplicate, never a lost message.
			if err := d.store.Requeue(retry); err != nil {
				d.logger.Error("failed to requeue outbox message", zap.Error(err))
				continue
			}
			if err := d.store.Remove(msg); err != nil {
				d.logger.Warn("failed to remove outbox message", zap.Error(err))
			}
			continue
		}

		if err := d.store.Remove(msg); err != nil {
			d.logger.Warn("failed to purge delivered message", zap.Error(err))
		}
	}
	return nil
}

// Dispatch attempts immediate delivery and falls back to the durable queue.
func (d *MailDispatcher) Dispatch(ctx context.Context, msg outbox.Message) error {
	if d == nil || d.store == nil {
		return fmt.Errorf("mail dispatcher not configured")
	}

	if err := d.sender.Send(msg); err != nil {
		d.logger.Warn("immediate delivery failed, queueing", zap.String("kind", msg.Kind), zap.Error(err))
		return d.store.Enqueue(msg)
	}
	return nil
}

// Size returns the number of queued messages.
func (d *MailDispatcher) Size() int {
	if d == nil || d.store == nil {
		return 0
	}
	size, err := d.store.Size()
	if err != nil {
		return 0
	}
	return size
}
