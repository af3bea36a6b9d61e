package internal

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cache memoises lookups for the lifetime of one process. Nothing is
// persisted between runs.
var Cache = cache.New(120*time.Minute, 0)

var inflight singleflight.Group

// Cached returns the value stored under key, calling fetch on a miss.
// Concurrent misses for the same key share one fetch. Only successful
// fetches are stored.
func Cached[T any](key string, fetch func() (T, error)) (T, error) {
	if cached, found := Cache.Get(key); found {
		if v, ok := cached.(T); ok {
			TxtLog.Debugf("Using cached data for %s", key)
			return v, nil
		}
	}
	shared, err, _ := inflight.Do(key, func() (interface{}, error) {
		v, err := fetch()
		if err != nil {
			return v, err
		}
		Cache.Set(key, v, cache.DefaultExpiration)
		return v, nil
	})
	v, _ := shared.(T)
	return v, err
}
