package record_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/record"
	"github.com/syssam/record/dialect"
)

func TestParseConfig(t *testing.T) {
	cfg, err := record.ParseConfig([]byte(`
mysql:
  user: app
  password: secret
  addr: 127.0.0.1:3306
  database: shop
  params:
    charset: utf8mb4
max_open_conns: 10
conn_max_lifetime: 5m
slow_threshold: 200ms
`))
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, cfg.Dialect)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowThreshold)
	assert.Equal(t, "app:secret@tcp(127.0.0.1:3306)/shop?charset=utf8mb4", cfg.FormatDSN())

	cfg.DSN = "root@/other"
	assert.Equal(t, "root@/other", cfg.FormatDSN(), "explicit dsn wins")
}

func TestParseConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unsupported dialect": "dialect: postgres\ndsn: x",
		"requires dsn":        "dialect: sqlite",
		"mysql block":         "dialect: sqlite\nmysql:\n  user: app",
		"negative":            "dsn: x\nmax_open_conns: -1",
		"parsing config":      "dsn: [",
	}
	for want, in := range tests {
		_, err := record.ParseConfig([]byte(in))
		require.Error(t, err, in)
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECORD_TEST_DB", "")
	require.NoError(t, os.Unsetenv("RECORD_TEST_DB"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECORD_TEST_DB="+filepath.Join(dir, "app.db")+"\n"), 0o600))
	path := filepath.Join(dir, "record.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: sqlite\ndsn: ${RECORD_TEST_DB}\ndebug: true\n"), 0o600))

	cfg, err := record.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.db"), cfg.DSN)
	assert.True(t, cfg.Debug)

	_, err = record.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := &record.Config{
		Dialect:       dialect.SQLite,
		DSN:           filepath.Join(t.TempDir(), "open.db"),
		MaxOpenConns:  4,
		SlowThreshold: time.Second,
	}
	client, err := record.Open(cfg, discard)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Execute(ctx, createUsers, nil))
	id, err := client.Insert(ctx, users, map[string]any{"name": "a8m"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	_, err = record.Open(&record.Config{Dialect: "oracle", DSN: "x"})
	assert.Error(t, err)
}
