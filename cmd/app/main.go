package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asquebay/dreamgirl-boutique/internal/catalog"
	"github.com/asquebay/dreamgirl-boutique/internal/config"
	"github.com/asquebay/dreamgirl-boutique/internal/lib/logger"
	"github.com/asquebay/dreamgirl-boutique/internal/media"
	"github.com/asquebay/dreamgirl-boutique/internal/repository"
	"github.com/asquebay/dreamgirl-boutique/internal/service"
	httptransport "github.com/asquebay/dreamgirl-boutique/internal/transport/http"
	"github.com/asquebay/dreamgirl-boutique/internal/transport/kafka"
)

func main() {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path())

	// 2. Инициализация логгера
	log := logger.NewWithFormat(cfg.Logger.Level, cfg.Logger.Format, os.Stdout)
	slog.SetDefault(log)
	log.Info("starting dreamgirl-boutique",
		slog.String("log_level", cfg.Logger.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	// 3. Инициализация хранилища
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	store, err := repository.Open(initCtx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Инициализация сервисов: каждый поднимает своё состояние из хранилища
	loc := cfg.Locale.TimeLocation()

	sessionSvc, err := service.NewSessionService(initCtx, store, log)
	if err != nil {
		fatal(log, store, "failed to restore session", err)
	}
	mediaSvc, err := service.NewMediaService(initCtx, store, log, service.WithLocation(loc))
	if err != nil {
		fatal(log, store, "failed to restore gallery", err)
	}
	orderSvc, err := service.NewOrderService(initCtx, store, log, service.WithLocation(loc))
	if err != nil {
		fatal(log, store, "failed to restore orders", err)
	}
	shopSvc, err := service.NewShopService(initCtx, store, log)
	if err != nil {
		fatal(log, store, "failed to restore shop state", err)
	}
	intakeSvc := service.NewIntakeService(orderSvc, log)

	if cfg.Owner.PasswordHash == "" {
		log.Warn("owner.password_hash is empty, run `cli hash-password` to enable login")
	}

	// 5. Инициализация и запуск Kafka-консьюмера, если он включён
	ctx, cancel := context.WithCancel(context.Background())
	var consumer *kafka.Consumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewConsumer(cfg.Kafka, intakeSvc, log)
		go consumer.Run(ctx)
	}

	// 6. Инициализация и запуск HTTP-сервера
	handler := httptransport.NewHandler(httptransport.Deps{
		Session:        sessionSvc,
		Gallery:        mediaSvc,
		Orders:         orderSvc,
		Intake:         intakeSvc,
		Shop:           shopSvc,
		Encoder:        media.NewEncoder(cfg.Media.MaxUploadBytes, cfg.Media.MaxWidth, log),
		Catalog:        catalog.New(cfg.Catalog, cfg.Contacts),
		Cookies:        httptransport.NewCookieStore(cfg.HTTPServer),
		Owner:          cfg.Owner,
		WebDir:         cfg.HTTPServer.WebDir,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}, log)

	httpServer := httptransport.NewServer(cfg.HTTPServer, httptransport.Chain(cfg.HTTPServer, log, handler))
	log.Info("starting http server", slog.String("port", cfg.HTTPServer.Port))

	go func() {
		if err := httpServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed to start", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// 7. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down application")
	cancel() // сигнал для консьюмера на завершение

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Error("error closing kafka consumer", slog.String("error", err.Error()))
		}
	}

	if err := store.Close(); err != nil {
		log.Error("error closing storage", slog.String("error", err.Error()))
	}

	log.Info("application stopped")
}

type closer interface {
	Close() error
}

func fatal(log *slog.Logger, store closer, msg string, err error) {
	log.Error(msg, slog.String("error", err.Error()))
	_ = store.Close()
	os.Exit(1)
}
