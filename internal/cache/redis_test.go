package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, "")

	mock.ExpectGet(DefaultKeyPrefix + "url|scripted=true").SetVal("cached text")

	value, ok, err := store.Get(context.Background(), "url|scripted=true")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cached text", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, "test:")

	mock.ExpectGet("test:missing").RedisNil()

	value, ok, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_GetError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, "test:")

	mock.ExpectGet("test:k").SetErr(errors.New("connection refused"))

	_, ok, err := store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedis_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, "test:")

	mock.ExpectSet("test:k", "v", 2*time.Minute).SetVal("OK")

	require.NoError(t, store.Set(context.Background(), "k", "v", 2*time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_SetDefaultTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedis(client, "test:")

	mock.ExpectSet("test:k", "v", DefaultTTL).SetVal("OK")

	require.NoError(t, store.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}
