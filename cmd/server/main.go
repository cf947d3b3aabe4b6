package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wordarena/wordarena-backend/internal/auth"
	"github.com/wordarena/wordarena-backend/internal/broker"
	"github.com/wordarena/wordarena-backend/internal/config"
	"github.com/wordarena/wordarena-backend/internal/httpapi"
	"github.com/wordarena/wordarena-backend/internal/registry"
	"github.com/wordarena/wordarena-backend/internal/word"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return err
	}

	store, err := auth.NewStore(db, cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenManager()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.New(word.NewPicker(nil, nil), nil)
	b := broker.New(ctx, reg, log)

	handler := httpapi.SetupRoutes(b, store, tokens, log)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		b.Inbox() <- broker.Shutdown{}
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
