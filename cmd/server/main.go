package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/basisdhar/mrmanager/internal/api"
	"github.com/basisdhar/mrmanager/internal/infrastructure/config"
	mongodb "github.com/basisdhar/mrmanager/internal/infrastructure/db/mongo"
	redisdb "github.com/basisdhar/mrmanager/internal/infrastructure/db/redis"
	"github.com/basisdhar/mrmanager/internal/infrastructure/mail"
	"github.com/basisdhar/mrmanager/internal/infrastructure/queue"
	"github.com/basisdhar/mrmanager/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	sender := mail.NewSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, sender, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server run failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
