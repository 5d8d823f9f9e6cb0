package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eon-interface/idealworld/config"
	"github.com/eon-interface/idealworld/internal/bootstrap"
	iwhttp "github.com/eon-interface/idealworld/internal/idealworld/http"
	"github.com/eon-interface/idealworld/internal/idealworld/service"
	"github.com/eon-interface/idealworld/internal/keylock"
	"github.com/eon-interface/idealworld/internal/provider"
	"github.com/eon-interface/idealworld/internal/speech"
	"github.com/eon-interface/idealworld/internal/storage"
)

const serviceName = "idealworld"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var locker keylock.Locker = keylock.NewLocal()
	if rdb != nil {
		defer rdb.Close()
		locker = keylock.NewRedis(rdb, cfg.Redis.LockTTL)
		log.Printf("audio cache locking via redis at %s", cfg.Redis.Addr)
	}

	ai := provider.NewClient(cfg.OpenAI)
	images := storage.NewDir(cfg.Storage.ImagesDir)
	audios := storage.NewDir(cfg.Storage.AudiosDir)

	handler := iwhttp.New(
		service.NewPipeline(ai, ai, images),
		speech.NewGreeter(ai, audios, locker, cfg.Redis.LockTTL),
		images,
		audios,
		cfg.Server.PublicBaseURL,
	)

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Redis:          rdb,
		Metrics:        ai.Metrics(),
		IdealWorld:     handler,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
