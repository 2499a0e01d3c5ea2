package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dsn    string
		driver string
		want   string
	}{
		{"empty is sqlite", "", "", "sqlite"},
		{"file path", "/tmp/shop.db", "", "sqlite"},
		{"postgres pgx", "postgres://u:p@localhost:5432/shop", "", "postgres"},
		{"postgres pq", "postgres://u:p@localhost:5432/shop", DriverPQ, "postgres"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Dialector(tt.dsn, tt.driver).Name())
		})
	}
}

func TestOpen_InMemorySQLite(t *testing.T) {
	t.Parallel()

	gdb, err := Open(context.Background(), ":memory:", "")
	require.NoError(t, err)
	require.NoError(t, gdb.Exec("SELECT 1").Error)
	require.NoError(t, Close(gdb))
}
