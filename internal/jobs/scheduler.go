package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job — периодическая задача.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler запускает задачи по cron-расписанию (5 полей, как в crontab).
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(log *zap.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{log: log.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add регистрирует задачу. Неверное выражение расписания — ошибка.
func (s *Scheduler) Add(expr string, job Job) error {
	if _, err := s.cron.AddFunc(expr, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}
	s.log.Info("job scheduled", zap.String("job", job.Name()), zap.String("schedule", expr))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенных задач, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Error("job failed",
			zap.String("job", job.Name()),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.log.Debug("job finished", zap.String("job", job.Name()), zap.Duration("took", time.Since(start)))
}

// cronLogger пересылает сообщения cron в zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
