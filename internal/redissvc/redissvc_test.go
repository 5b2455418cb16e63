package redissvc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFailsWithoutServer(t *testing.T) {
	_, err := New(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestNewPingsServer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	svc, err := New(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NotNil(t, svc.Rdb())
}
