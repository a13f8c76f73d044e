package repository

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ashwinyue/next-mentor/internal/config"
	"github.com/ashwinyue/next-mentor/internal/database"
)

// newTestDB 每个测试使用独立的 SQLite 文件库
func newTestDB(t *testing.T) *database.DB {
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

func newTestRepos(t *testing.T) (*Repositories, *database.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewRepositories(db.DB), db
}

// stubClock 让 timeNow 每次调用前进一秒
func stubClock(t *testing.T, start time.Time) {
	t.Helper()
	var mu sync.Mutex
	current := start.UTC()
	prev := timeNow
	timeNow = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
	t.Cleanup(func() { timeNow = prev })
}
