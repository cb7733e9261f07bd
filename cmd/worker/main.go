package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"essenza-backend/internal/config"
	"essenza-backend/internal/db"
	"essenza-backend/internal/mailer"
	"essenza-backend/internal/pricing"
	"essenza-backend/internal/recovery"
	cartrepo "essenza-backend/internal/repository/cart"
	couponrepo "essenza-backend/internal/repository/coupon"
	profilerepo "essenza-backend/internal/repository/profile"
	recoveryrepo "essenza-backend/internal/repository/recovery"
	"essenza-backend/internal/worker"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.ConnectWithRetry(ctx, cfg.DBConnString, 30*time.Second)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartRepo := cartrepo.NewPostgres(dbpool)
	profileRepo := profilerepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	recoveryRepo := recoveryrepo.NewPostgres(dbpool, logger)
	mailClient := mailer.NewClient(cfg.Mailer.URL, cfg.Mailer.Token, cfg.Mailer.Timeout)

	recoverySvc := recovery.New(cartRepo, profileRepo, couponRepo, recoveryRepo, mailClient, recovery.Config{
		AbandonAfter:    cfg.Recovery.AbandonAfter,
		DiscountPercent: cfg.Recovery.DiscountPercent,
		CouponPrefix:    cfg.Recovery.CouponPrefix,
		CouponTTL:       cfg.Recovery.CouponTTL,
		Fallbacks:       pricing.Fallbacks{Pct5ml: cfg.Recovery.Fallback5mlPct, Pct10ml: cfg.Recovery.Fallback10mlPct},
		LowStockRatio:   cfg.Recovery.LowStockRatio,
	}, logger)

	handler := worker.NewHandler(recoverySvc, logger)
	srv := worker.NewServer(cfg.RedisAddr, cfg.Recovery.WorkerConcurrency)
	mux := worker.NewMux(handler)

	scheduler, err := worker.NewScheduler(cfg.RedisAddr, cfg.Recovery.Cron)
	if err != nil {
		logger.Fatalf("init scheduler: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("starting worker, queue %s, cron %q", worker.QueueRecovery, cfg.Recovery.Cron)
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := scheduler.Run(); err != nil {
			errCh <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-errCh:
		logger.Errorf("worker error: %v", err)
	}

	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker stopped")
}
