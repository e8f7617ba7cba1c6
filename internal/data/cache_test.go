package data

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedVoice struct {
	Tone       string   `json:"tone"`
	Vocabulary []string `json:"vocabulary"`
}

func setupTestCache(t *testing.T) (CacheClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCacheClient(rdb), mr
}

func TestCache_SetGetDelete(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()
	key := BuildCacheKey(CacheKeyVoice, "acc-1")

	require.NoError(t, cache.Set(ctx, key, cachedVoice{Tone: "direct", Vocabulary: []string{"real talk"}}, TTLVoice))
	assert.Equal(t, TTLVoice, mr.TTL(key))

	var got cachedVoice
	require.NoError(t, cache.Get(ctx, key, &got))
	assert.Equal(t, "direct", got.Tone)
	assert.Equal(t, []string{"real talk"}, got.Vocabulary)

	require.NoError(t, cache.Delete(ctx, key))
	assert.ErrorIs(t, cache.Get(ctx, key, &got), ErrCacheNotFound)
}

func TestCache_Expiry(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "voice:acc-2", cachedVoice{Tone: "calm"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got cachedVoice
	assert.ErrorIs(t, cache.Get(ctx, "voice:acc-2", &got), ErrCacheNotFound)
}

func TestCache_CorruptValue(t *testing.T) {
	cache, mr := setupTestCache(t)
	require.NoError(t, mr.Set("voice:acc-3", "{not json"))

	var got cachedVoice
	err := cache.Get(context.Background(), "voice:acc-3", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheNotFound)
}

func TestCache_NilClient(t *testing.T) {
	cache := NewCacheClient(nil)
	ctx := context.Background()

	var got cachedVoice
	assert.Error(t, cache.Get(ctx, "k", &got))
	assert.Error(t, cache.Set(ctx, "k", got, time.Minute))
	assert.Error(t, cache.Delete(ctx, "k"))
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "voice:acc-1", BuildCacheKey(CacheKeyVoice, "acc-1"))
	assert.Equal(t, "rate:acc-1:rpm", BuildCacheKey(CacheKeyRate, "acc-1", "rpm"))
	assert.Equal(t, "voice", BuildCacheKey(CacheKeyVoice))
}
