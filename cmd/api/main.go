package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"essenza-backend/internal/config"
	"essenza-backend/internal/db"
	"essenza-backend/internal/httpserver"
	"essenza-backend/internal/mailer"
	"essenza-backend/internal/pricing"
	"essenza-backend/internal/recovery"
	cartrepo "essenza-backend/internal/repository/cart"
	couponrepo "essenza-backend/internal/repository/coupon"
	perfumerepo "essenza-backend/internal/repository/perfume"
	profilerepo "essenza-backend/internal/repository/profile"
	recoveryrepo "essenza-backend/internal/repository/recovery"
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

	perfumeRepo := perfumerepo.NewPostgres(dbpool, logger)
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

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Recovery:    recoverySvc,
		Attempts:    recoveryRepo,
		Carts:       cartRepo,
		Perfumes:    perfumeRepo,
		Coupons:     couponRepo,
		AdminAPIKey: cfg.AdminAPIKey,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}
