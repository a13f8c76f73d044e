package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/handler"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/router"
	"github.com/ashwinyue/next-mentor/internal/service"
	"github.com/ashwinyue/next-mentor/internal/service/callback"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, db, err := openDatabase(opts)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer db.Close()

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	// 模型调用日志
	callback.SetupGlobalCallbacks(log, cfg.App.Debug)

	redisClient := service.NewRedisClient(&cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, presence lookups will queue replies", zap.Error(err))
		}
	}

	// 初始化各层
	repos := repository.NewRepositories(db.DB)
	services, err := service.NewServices(ctx, repos, cfg, redisClient, log)
	if err != nil {
		return err
	}
	r := router.SetupRouter(handler.NewHandlers(services), services.Auth, log.Named("http"))

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("Shutting down server")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}
