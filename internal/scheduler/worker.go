package scheduler

import (
	"context"
	"fmt"
	"time"

	"realty_crm_backend/internal/leads/service"
	"realty_crm_backend/platform/config"
	"realty_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DigestBuilder produces the daily pipeline digest.
type DigestBuilder interface {
	Digest(ctx context.Context) (service.Digest, error)
}

type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	digests   DigestBuilder
	log       *logger.Logger
}

// NewWorker builds the task server and the periodic scheduler that enqueues
// the digest on DIGEST_CRON in the business timezone.
func NewWorker(cfg config.SchedulerConfig, loc *time.Location, digests DigestBuilder, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	queue := queueName(cfg)

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
		Logger: asynqLogger{log: log},
	})

	periodic := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: loc,
		Logger:   asynqLogger{log: log},
	})
	if cron := cfg.GetDigestCron(); cron != "" {
		task, err := NewDigestTask(DigestPayload{Trigger: TriggerCron})
		if err != nil {
			return nil, err
		}
		if _, err := periodic.Register(cron, task, asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register digest cron %q: %w", cron, err)
		}
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		scheduler: periodic,
		mux:       mux,
		digests:   digests,
		log:       log,
	}

	mux.HandleFunc(TaskLeadsDigest, w.handleDigest)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			w.log.Error("digest scheduler failed to start", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleDigest(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDigestPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	digest, err := w.digests.Digest(ctx)
	if err != nil {
		return err
	}

	w.log.Info("daily digest",
		"trigger", payload.Trigger,
		"date", digest.Date.String(),
		"newLeads", digest.NewLeads,
		"siteVisits", digest.SiteVisits,
		"bookings", digest.Bookings,
		"unassigned", digest.Unassigned,
		"overdue", digest.Priority.Overdue,
		"dueToday", digest.Priority.Today,
		"invalidDates", digest.InvalidDates,
	)
	if digest.TopPerformer != nil {
		w.log.Info("digest top performer", "employeeId", digest.TopPerformer.ID, "name", digest.TopPerformer.Name)
	}
	return nil
}
