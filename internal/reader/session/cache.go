// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "sync"

// ChapterCountCache memoizes chapter counts by book id for the life of the
// process. Entries never expire; they go only through Clear or ClearAll.
type ChapterCountCache struct {
	mu     sync.RWMutex
	counts map[int64]int
}

// NewChapterCountCache creates an empty cache.
func NewChapterCountCache() *ChapterCountCache {
	return &ChapterCountCache{counts: make(map[int64]int)}
}

// Get returns the cached count of a book.
func (cache *ChapterCountCache) Get(bookID int64) (int, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	count, ok := cache.counts[bookID]
	return count, ok
}

// Set caches the count of a book.
func (cache *ChapterCountCache) Set(bookID int64, count int) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.counts[bookID] = count
}

// Clear forgets one book.
func (cache *ChapterCountCache) Clear(bookID int64) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.counts, bookID)
}

// ClearAll forgets every book.
func (cache *ChapterCountCache) ClearAll() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	clear(cache.counts)
}
