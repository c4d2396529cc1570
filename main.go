package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookkeeping/internal/config"
	"bookkeeping/internal/database"
	"bookkeeping/internal/models"
	"bookkeeping/internal/persistence"
	"bookkeeping/internal/remote"
	"bookkeeping/internal/router"
	"bookkeeping/internal/service"
	"bookkeeping/internal/store"
	"bookkeeping/internal/util"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// remoteLoadTimeout bounds the startup fetch from the remote backend.
const remoteLoadTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	hashPassphrase := flag.String("hash-passphrase", "", "print the security.passphrase_hash value for a passphrase and exit")
	flag.Parse()

	if *hashPassphrase != "" {
		hash, err := util.HashPassphrase(*hashPassphrase)
		if err != nil {
			log.Fatalf("hash passphrase: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, logFile, err := util.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logFile.Close()

	// local database: key-value store, backups index, audit log
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("init database: %v", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	defaults := models.DefaultSettings(cfg.App.BusinessName, cfg.App.Currency, time.Now())
	gateway := persistence.NewGateway(persistence.NewKVStore(db), openRemote(cfg.Remote, logger), cfg.Remote.RecordID, defaults, logger)

	ctx, cancel := context.WithTimeout(context.Background(), remoteLoadTimeout)
	initial := gateway.Load(ctx)
	cancel()

	st := store.New(initial)
	svc := service.New(st, gateway, service.Defaults{BusinessName: cfg.App.BusinessName, Currency: cfg.App.Currency}, logger)

	var backups *service.Backups
	var scheduler *cron.Cron
	if cfg.Security.EncryptionKey != "" {
		backups = service.NewBackups(db, svc, cfg.Security.EncryptionKey, cfg.Backup.Dir, cfg.Backup.Keep)
		if cfg.Backup.Schedule != "" {
			if scheduler, err = backups.Schedule(cfg.Backup.Schedule); err != nil {
				logger.Fatalf("schedule backups: %v", err)
			}
		}
	} else {
		logger.Warn("security.encryption_key not set, backups disabled")
	}

	r := router.SetupRouter(router.Deps{
		Config:  cfg,
		DB:      db,
		Service: svc,
		Backups: backups,
		Log:     logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   addr,
			"remote": gateway.RemoteEnabled(),
			"auth":   cfg.AuthEnabled(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown")
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	gateway.Flush()
}

// openRemote returns nil, meaning local-only, when the remote backend is
// disabled or cannot be reached.
func openRemote(cfg config.RemoteConfig, logger *logrus.Logger) persistence.RemoteBackend {
	if !cfg.Enabled {
		return nil
	}
	db, err := remote.Open(cfg)
	if err != nil {
		logger.WithError(err).Warn("remote backend unavailable, running local-only")
		return nil
	}
	backend := remote.New(db)
	if err := backend.Migrate(); err != nil {
		logger.WithError(err).Warn("remote backend unavailable, running local-only")
		return nil
	}
	return backend
}
