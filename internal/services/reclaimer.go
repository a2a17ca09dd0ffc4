package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/peerassist/backend/domain"
	"github.com/peerassist/backend/repository"
)

// ReclaimerConfig controls the stale-verification sweep.
type ReclaimerConfig struct {
	Interval time.Duration
	Grace    time.Duration
}

// Reclaimer unsticks tasks abandoned in PendingVerification: once the
// pending code has been expired past the grace window, the code is cleared
// and the task moves to InProgress so a worker can request completion again.
type Reclaimer struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ReclaimerConfig
}

func NewReclaimer(tasks repository.TaskRepository, logger *zap.Logger, cfg ReclaimerConfig) *Reclaimer {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Grace <= 0 {
		cfg.Grace = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reclaimer{
		tasks:  tasks,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Sweep(ctx); err != nil {
			r.logger.Error("stale verification sweep failed", zap.Error(err))
		}
	})

	return r
}

func (r *Reclaimer) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("verification reclaimer started")
}

func (r *Reclaimer) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("verification reclaimer stopped")
}

// Sweep reclaims every stuck pending verification in one pass.
func (r *Reclaimer) Sweep(ctx context.Context) error {
	pending, err := r.tasks.List(ctx, repository.TaskFilter{Status: domain.StatusPendingVerification})
	if err != nil {
		return err
	}

	now := time.Now()
	for _, candidate := range pending {
		id := candidate.ID
		reclaimed := false
		if _, err := r.tasks.Mutate(ctx, id, func(task *domain.Task) error {
			reclaimed = task.ReclaimStaleOTP(now, r.cfg.Grace)
			return nil
		}); err != nil {
			r.logger.Warn("failed to reclaim task", zap.String("task_id", id), zap.Error(err))
			continue
		}
		if reclaimed {
			r.logger.Info("reclaimed stale pending verification", zap.String("task_id", id))
		}
	}
	return nil
}
