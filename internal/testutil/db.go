// Package testutil 提供测试辅助工具
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashwinyue/next-mentor/internal/config"
	"github.com/ashwinyue/next-mentor/internal/database"
	"github.com/ashwinyue/next-mentor/internal/repository"
)

// NewTestDB 创建测试用 SQLite 文件库，测试结束自动关闭
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "mentor.db"),
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			MaxLifetime:  60,
		},
	}
	db, err := database.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// NewTestRepositories 创建基于测试库的仓库集合
func NewTestRepositories(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewTestDB(t).DB)
}
