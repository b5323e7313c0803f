package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "eventaide/internal/common/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cityEntry struct {
	City string `json:"city"`
}

func setupRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewFromClient(client, "eventaide"), mr
}

func TestRedisCache_Key(t *testing.T) {
	c := NewFromClient(nil, "eventaide")
	assert.Equal(t, "eventaide:city:new york", c.Key("city", "new york"))

	bare := NewFromClient(nil, "")
	assert.Equal(t, "events:abc", bare.Key("events", "abc"))
}

func TestRedisCache_SetGetJSON(t *testing.T) {
	c, mr := setupRedis(t)
	ctx := context.Background()
	key := c.Key("city", "naw yorkk")

	require.NoError(t, c.SetJSON(ctx, key, cityEntry{City: "New York"}, time.Minute))
	assert.True(t, mr.Exists(key))

	var got cityEntry
	found, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "New York", got.City)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := setupRedis(t)

	var got cityEntry
	found, err := c.GetJSON(context.Background(), c.Key("city", "nowhere"), &got)

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptValueIsDropped(t *testing.T) {
	c, mr := setupRedis(t)
	key := c.Key("city", "broken")
	require.NoError(t, mr.Set(key, "{not json"))

	var got cityEntry
	found, err := c.GetJSON(context.Background(), key, &got)

	assert.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(key))
}

func TestRedisCache_ErrorsAreTyped(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewFromClient(client, "eventaide")
	key := c.Key("events", "abc")

	mock.ExpectGet(key).SetErr(errors.New("connection reset"))
	var got cityEntry
	found, err := c.GetJSON(context.Background(), key, &got)
	assert.False(t, found)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCacheUnavailable))

	mock.ExpectSet(key, []byte(`{"city":"Rolla"}`), time.Minute).SetErr(errors.New("read only"))
	err = c.SetJSON(context.Background(), key, cityEntry{City: "Rolla"}, time.Minute)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeCacheUnavailable))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Ping(t *testing.T) {
	c, mr := setupRedis(t)
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

func TestKeyspace(t *testing.T) {
	assert.Equal(t, "city", keyspace("eventaide:city:new york", "eventaide"))
	assert.Equal(t, "events", keyspace("events:1234", ""))
	assert.Equal(t, "plain", keyspace("plain", ""))
}
