package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/focusflow/backend/internal/infrastructure/outbox"
	"github.com/focusflow/backend/pkg/mail"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how frequently the outbox is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// MailProcessor drains the outbox through the mail provider on a schedule.
type MailProcessor struct {
	store  *outbox.Store
	health ConnectionHealth
	sender mail.Sender
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ProcessorConfig
}

func NewMailProcessor(
	store *outbox.Store,
	health ConnectionHealth,
	sender mail.Sender,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *MailProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mp := &MailProcessor{
		store:  store,
		health: health,
		sender: sender,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = mp.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := mp.Drain(ctx); err != nil {
			mp.logger.Error("outbox drain failed", zap.Error(err))
		}
	})
	_, _ = mp.cron.AddFunc("@hourly", func() {
		if err := mp.store.Cleanup(time.Now().Add(-cfg.Retention)); err != nil {
			mp.logger.Warn("outbox cleanup failed", zap.Error(err))
		}
	})

	return mp
}

// Start launches the cron scheduler.
func (mp *MailProcessor) Start() {
	if mp == nil || mp.cron == nil {
		return
	}
	mp.cron.Start()
	mp.logger.Info("mail processor started")
}

// Stop gracefully stops the scheduler.
func (mp *MailProcessor) Stop(ctx context.Context) {
	if mp == nil || mp.cron == nil {
		return
	}
	stopCtx := mp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	mp.logger.Info("mail processor stopped")
}

// Drain sends queued mail synchronously. Entries whose delivery keeps
// failing are dropped once the retry budget is spent.
func (mp *MailProcessor) Drain(ctx context.Context) error {
	if mp == nil || mp.store == nil {
		return nil
	}
	if mp.health != nil && !mp.health.IsOnline() {
		mp.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	entries, err := mp.store.GetBatch(mp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := mp.sender.Send(ctx, entry.Mail); err != nil {
			mp.logger.Error("failed to send queued mail",
				zap.String("entry_id", entry.ID),
				zap.String("template", entry.Mail.Template),
				zap.Error(err))

			entry.Retries++
			if entry.Retries >= mp.cfg.MaxRetries {
				mp.logger.Warn("dropping mail (max retries reached)", zap.String("entry_id", entry.ID))
				_ = mp.store.Remove(entry)
				continue
			}

			if err := mp.store.Requeue(entry); err != nil {
				mp.logger.Error("failed to requeue outbox entry", zap.Error(err))
			}
			continue
		}

		if err := mp.store.Remove(entry); err != nil {
			mp.logger.Warn("failed to purge sent mail", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of queued entries.
func (mp *MailProcessor) Size() int {
	if mp == nil || mp.store == nil {
		return 0
	}
	size, err := mp.store.Size()
	if err != nil {
		return 0
	}
	return size
}
