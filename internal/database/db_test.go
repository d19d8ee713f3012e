package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := newConfig("app", "secret", "db.local", "3307", "eventwall")

	assert.Equal(t, "db.local:3307", cfg.Addr)
	assert.Equal(t, "eventwall", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, time.UTC, cfg.Loc)

	parsed, err := mysql.ParseDSN(cfg.FormatDSN())
	require.NoError(t, err)
	assert.True(t, parsed.ClientFoundRows)
	assert.Equal(t, "app", parsed.User)
}
