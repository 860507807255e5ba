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

	"discussx/cmd/app"
	"discussx/internal/config"
	"discussx/internal/database"
	handlers "discussx/internal/handler"
	"discussx/internal/logger"
	"discussx/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	logger.InitLogger(logger.ParseLevel(cfg.LogLevel), cfg.LogFile)
	defer logger.CloseLogger()

	if cfg.JWTSecretKey == "" {
		logger.Fatalf("JWT_SECRET_KEY is not set")
	}

	db, _, services := app.App(cfg)
	defer database.MethodsDB.CloseDB(db)

	handler := handlers.NewHandlers(services, cfg)
	router := handlers.NewRouter(handler)

	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(services.Auth),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
		middleware.RecoverMiddleware,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server listening on %s (database driver %s)", server.Addr, cfg.DB.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
