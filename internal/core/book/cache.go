// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/flute/internal/platform/constants"
)

// CountCache remembers how many chapters a book has.
//
// A book's chapters never change after upload, so entries never expire.
type CountCache interface {
	Get(ctx context.Context, bookID int64) (int, bool, error)
	Set(ctx context.Context, bookID int64, count int) error
}

// # Memory

// MemoryCountCache is an in-process [CountCache].
type MemoryCountCache struct {
	mu     sync.RWMutex
	counts map[int64]int
}

// NewMemoryCountCache creates an empty MemoryCountCache.
func NewMemoryCountCache() *MemoryCountCache {
	return &MemoryCountCache{counts: make(map[int64]int)}
}

func (cache *MemoryCountCache) Get(_ context.Context, bookID int64) (int, bool, error) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	count, ok := cache.counts[bookID]
	return count, ok, nil
}

func (cache *MemoryCountCache) Set(_ context.Context, bookID int64, count int) error {
	cache.mu.Lock()
	cache.counts[bookID] = count
	cache.mu.Unlock()
	return nil
}

// # Redis

// RedisCountCache shares chapter counts between server instances.
type RedisCountCache struct {
	client redis.UniversalClient
}

// NewRedisCountCache creates a new RedisCountCache.
func NewRedisCountCache(client redis.UniversalClient) *RedisCountCache {
	return &RedisCountCache{client: client}
}

/*
Get reads a cached count.

Returns:
  - int: The chapter count
  - bool: false when the book is not cached
  - error: Connectivity or decoding errors
*/
func (cache *RedisCountCache) Get(ctx context.Context, bookID int64) (int, bool, error) {
	raw, err := cache.client.Get(ctx, countKey(bookID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis_chapter_count_get_failed: %w", err)
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("redis_chapter_count_decode_failed: %w", err)
	}
	return count, true, nil
}

// Set stores a count without expiry.
func (cache *RedisCountCache) Set(ctx context.Context, bookID int64, count int) error {
	if err := cache.client.Set(ctx, countKey(bookID), count, 0).Err(); err != nil {
		return fmt.Errorf("redis_chapter_count_set_failed: %w", err)
	}
	return nil
}

func countKey(bookID int64) string {
	return constants.RedisPrefixChapterCount + strconv.FormatInt(bookID, 10)
}
