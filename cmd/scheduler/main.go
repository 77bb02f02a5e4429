package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realty_crm_backend/internal/leads"
	"realty_crm_backend/internal/scheduler"
	"realty_crm_backend/platform/config"
	"realty_crm_backend/platform/db"
	"realty_crm_backend/platform/logger"
	"realty_crm_backend/platform/redisconn"
	"realty_crm_backend/platform/retry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "digestCron", cfg.GetDigestCron())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := retry.Do(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	rdb, err := redisconn.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	if rdb != nil {
		defer rdb.Close()
	}

	leadService, err := leads.NewService(pool, rdb, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads service", "error", err)
		panic("failed to initialize leads service: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, cfg.GetBusinessLocation(), leadService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("scheduler worker running")
	worker.Run(ctx)
	log.Info("scheduler stopped")
}
