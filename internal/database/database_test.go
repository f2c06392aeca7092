package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"numbertalk/internal/config"
	"numbertalk/internal/models"
)

func TestDialector(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: "sqlite", SQLitePath: "board.db"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("postgres", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: "postgres", DBHost: "localhost", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n"})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Dialector(&config.Config{DBDriver: "oracle"})
		assert.Error(t, err)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "board.db?_foreign_keys=on", sqliteDSN("board.db"))
	assert.Equal(t, "file:x?mode=memory", sqliteDSN("file:x?mode=memory"))
}

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "board.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasColumn(&models.Calculation{}, "root_id"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 2", 1 }, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 3", 1 }, errors.New("ignored"))
	assert.Empty(t, buf.String())
}
