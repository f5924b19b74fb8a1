package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Sagar1205/QuickTask/internal/api"
	"github.com/Sagar1205/QuickTask/internal/config"
	"github.com/Sagar1205/QuickTask/internal/dao"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/mailer"
	"github.com/Sagar1205/QuickTask/internal/metrics"
	"github.com/Sagar1205/QuickTask/internal/migrate"
	"github.com/Sagar1205/QuickTask/internal/realtime"
	"github.com/Sagar1205/QuickTask/internal/service"
)

var Version = "v0.1.0"

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	migrateFlag := flag.Bool("migrate", true, "run SQL migrations on startup")
	migrationsDir := flag.String("migrations", "migrations", "directory containing *.sql migration files")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Setup(cfg.Logging); err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	defer func() { _ = logging.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := dao.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("unwrap sql db: %v", err)
	}
	defer sqlDB.Close()

	if err := dao.Ping(gdb, 5, 2*time.Second); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if *migrateFlag {
		abs, _ := filepath.Abs(*migrationsDir)
		if err := migrate.Run(ctx, sqlDB, abs); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		logging.Infof(ctx, "migrations applied from %s", abs)
	}

	rdb, err := realtime.Open(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	sender, err := mailer.NewSMTP(cfg.Mail)
	if err != nil {
		log.Fatalf("setup mailer: %v", err)
	}

	met := metrics.New()
	feed := realtime.NewFeed(rdb, met)
	presence := realtime.NewPresence(rdb, feed, cfg.Presence.TTL)

	taskDao := dao.NewTaskDao(gdb)
	listDao := dao.NewListDao(gdb)
	memberDao := dao.NewMemberDao(gdb)
	profileDao := dao.NewProfileDao(gdb)
	auditDao := dao.NewAuditDao(gdb)

	router := api.NewRouter(api.Dependencies{
		Tasks:    service.NewTaskService(taskDao, auditDao, feed),
		Lists:    service.NewListService(listDao, memberDao, profileDao, auditDao, feed),
		Notifier: service.NewNotifier(listDao, memberDao, profileDao, sender, met, cfg.Mail, cfg.Notify),
		Stream:   feed,
		Presence: presence,
		Metrics:  met,
		Version:  Version,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logging.Infof(ctx, "quicktask server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Errorf(shutdownCtx, "graceful shutdown failed: %v", err)
	}
}
