package cronx

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// dayCacheKey identifies a calendar month for the purposes of caching its
// list of cron-valid days. Calculations are local-time based and a single
// Expression is expected to be driven from a single location, so the
// location itself is not part of the key.
type dayCacheKey struct {
	year  int
	month int
}

// dayCache memoizes, per (year, month), the sorted list of calendar days
// that satisfy an Expression's day-of-month/day-of-week rule. It is a
// bounded LRU: correctness of the calculator never depends on a hit here,
// only performance does. Held behind its own lock since *Expression is
// shared across goroutines (e.g. a scheduler polling many tasks).
type dayCache struct {
	mu  sync.Mutex
	lru *lru.Cache[dayCacheKey, []int]
}

func newDayCache(size int) *dayCache {
	c, err := lru.New[dayCacheKey, []int](size)
	if err != nil {
		// Only returns an error for a non-positive size, which never
		// happens for our compile-time constant.
		panic(err)
	}
	return &dayCache{lru: c}
}

// get returns the cached day list for (year, month), computing and storing
// it via compute on a miss.
func (c *dayCache) get(year, month int, compute func() []int) []int {
	key := dayCacheKey{year: year, month: month}

	c.mu.Lock()
	if days, ok := c.lru.Get(key); ok {
		c.mu.Unlock()
		return days
	}
	c.mu.Unlock()

	days := compute()

	c.mu.Lock()
	c.lru.Add(key, days)
	c.mu.Unlock()

	return days
}
