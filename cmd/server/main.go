package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/config"
	"github.com/taskly/backend/internal/handlers"
	"github.com/taskly/backend/internal/logger"
	"github.com/taskly/backend/internal/mailer"
	"github.com/taskly/backend/internal/services"
	"github.com/taskly/backend/internal/store"
)

func main() {
	logger.Init(logger.Config{Level: os.Getenv("TASKLY_LOG_LEVEL"), Format: "json"})
	log := logger.Get()

	cfg, err := config.LoadApp()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("failed to disconnect from mongo", "error", err)
		}
	}()

	if err := store.EnsureIndexes(ctx, db, cfg.TokenTTL); err != nil {
		log.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	st := store.New(db, cfg.TokenTTL)

	mail, err := mailer.New(mailer.Config{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		User:        cfg.SMTP.User,
		Password:    cfg.SMTP.Password,
		From:        cfg.SMTP.From,
		FrontendURL: cfg.FrontendURL,
	})
	if err != nil {
		log.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	sessions := auth.NewSessionIssuer(cfg.JWT.Secret, cfg.JWT.Validity)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterDeps{
		Accounts: services.NewAccountService(st.Users, st.Tokens, mail, sessions, log),
		Projects: services.NewProjectService(st.Projects, st.Tasks, st.Notes, log),
		Tasks:    services.NewTaskService(st.Tasks, st.Projects, st.Notes, log),
		Team:     services.NewTeamService(st.Projects, st.Users, log),
		Notes:    services.NewNoteService(st.Notes, st.Tasks, log),

		Sessions: sessions,
		Store:    st,

		AllowedOrigin: cfg.CORSOrigin,
		Log:           log,
	})

	// The TTL index already expires tokens; the sweep keeps the collection
	// tidy when the index is missing (e.g. a fresh database before the first
	// EnsureIndexes run picked up a TTL change).
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := st.Tokens.DeleteExpired(ctx)
				if err != nil {
					log.Error("failed to sweep expired tokens", "error", err)
					continue
				}
				if n > 0 {
					log.Info("swept expired tokens", "count", n)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
