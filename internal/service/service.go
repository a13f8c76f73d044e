package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/config"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/approval"
	"github.com/ashwinyue/next-mentor/internal/service/auth"
	"github.com/ashwinyue/next-mentor/internal/service/chat"
	"github.com/ashwinyue/next-mentor/internal/service/generation"
	"github.com/ashwinyue/next-mentor/internal/service/generator"
	"github.com/ashwinyue/next-mentor/internal/service/presence"
	"github.com/ashwinyue/next-mentor/internal/service/style"
)

// Services 服务集合
type Services struct {
	Chat       *chat.Service
	Style      *style.Manager
	Approval   *approval.Engine
	Generation *generation.Service
	Presence   *presence.Tracker
	Auth       *auth.Service

	// 配置
	Config *config.Config
	Repos  *repository.Repositories
	Logger *zap.Logger
}

// NewServices 创建所有服务
// 生成服务创建失败时记录警告，所有生成调用返回兜底文本
func NewServices(ctx context.Context, repos *repository.Repositories, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	gen, err := generator.NewFromConfig(ctx, &cfg.AI)
	if err != nil {
		logger.Warn("Generator unavailable, replies will use fallback text",
			zap.String("provider", cfg.AI.Provider), zap.Error(err))
		gen = unavailableGenerator(err)
	}

	return NewServicesWithGenerator(repos, cfg, gen, redisClient, logger)
}

// NewServicesWithGenerator 使用指定的生成器创建所有服务
func NewServicesWithGenerator(repos *repository.Repositories, cfg *config.Config, gen generator.Generator, redisClient *redis.Client, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	authSvc, err := auth.NewService(&cfg.Auth)
	if err != nil {
		return nil, err
	}

	tracker := presence.NewTracker(redisClient, time.Duration(cfg.Redis.PresenceTTL)*time.Second, cfg.Mentor.DefaultOnline)
	styles := style.NewManager(repos.Style, gen, logger.Named("style"))
	engine := approval.NewEngine(repos.Queue, logger.Named("approval"))

	return &Services{
		Chat:       chat.NewService(repos.Chat, logger.Named("chat")),
		Style:      styles,
		Approval:   engine,
		Generation: generation.NewService(gen, styles, repos.Chat, engine, tracker, logger.Named("generation")),
		Presence:   tracker,
		Auth:       authSvc,
		Config:     cfg,
		Repos:      repos,
		Logger:     logger,
	}, nil
}

// NewRedisClient 创建 Redis 客户端，未启用时返回 nil
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func unavailableGenerator(cause error) generator.Generator {
	return generator.Func(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("%w: generator not configured: %v", generator.ErrGeneration, cause)
	})
}
