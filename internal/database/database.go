package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashwinyue/next-mentor/internal/config"
	"github.com/ashwinyue/next-mentor/internal/model"
)

// DB 数据库封装
// 由调用方显式创建并负责 Close
type DB struct {
	*gorm.DB
	driver string
}

// New 创建数据库连接并完成迁移
func New(cfg *config.Config, logger *zap.Logger) (*DB, error) {
	logLevel := gormlogger.Silent
	if cfg.App.Debug {
		logLevel = gormlogger.Info
	}

	dialector, err := newDialector(&cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	// 连接池配置
	if isMemorySQLite(&cfg.Database) {
		// 每个 :memory: 连接都是独立的数据库
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.MaxLifetime) * time.Second)
	}

	// 健康检查
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	if logger != nil {
		logger.Info("Database ready",
			zap.String("driver", driverName(&cfg.Database)),
			zap.Int("models", len(model.AllModels)))
	}

	return &DB{DB: db, driver: driverName(&cfg.Database)}, nil
}

// Driver 返回数据库驱动名
func (db *DB) Driver() string {
	return db.driver
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 检查数据库连接
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func newDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg)), nil
	case "postgres":
		return postgres.Open(cfg.GetDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// sqliteDSN 文件库开启 WAL 以便读不阻塞写，写事务使用 BEGIN IMMEDIATE 避免锁升级死锁
func sqliteDSN(cfg *config.DatabaseConfig) string {
	if isMemorySQLite(cfg) {
		return "file::memory:?_foreign_keys=on"
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	return cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
}

func isMemorySQLite(cfg *config.DatabaseConfig) bool {
	return driverName(cfg) == "sqlite" && (cfg.Path == "" || strings.Contains(cfg.Path, ":memory:"))
}

func driverName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "" {
		return "sqlite"
	}
	return strings.ToLower(cfg.Driver)
}

// autoMigrate 自动迁移
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels...)
}
