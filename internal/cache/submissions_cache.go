package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/trucklogix/site-api/internal/models"
	"github.com/trucklogix/site-api/pkg/logger"
	"github.com/trucklogix/site-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	submissionsCacheKey  = "submissions:all"
	submissionsCacheName = "contact_submissions"
	cacheCheckPeriod     = time.Minute
	sharedFetchTimeout   = 10 * time.Second
)

// SubmissionsFetcher loads the full submissions list from the datastore
type SubmissionsFetcher func(ctx context.Context) ([]*models.ContactSubmission, error)

// SubmissionsCache keeps the newest-first submissions list for a short TTL.
// Writers call Invalidate after a commit so the next read sees the new row.
type SubmissionsCache struct {
	cache      *gocache.Cache
	fetch      SubmissionsFetcher
	ttl        time.Duration
	flight     singleflight.Group
	mu         sync.Mutex
	generation uint64
}

// NewSubmissionsCache creates the cache. A ttlSeconds of 0 disables caching.
func NewSubmissionsCache(fetch SubmissionsFetcher, ttlSeconds int) *SubmissionsCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &SubmissionsCache{
		cache: gocache.New(ttl, cacheCheckPeriod),
		fetch: fetch,
		ttl:   ttl,
	}
}

// Get returns the cached list or loads it on a miss
func (sc *SubmissionsCache) Get(ctx context.Context) ([]*models.ContactSubmission, error) {
	if sc.ttl <= 0 {
		return sc.fetch(ctx)
	}

	if data, found := sc.cache.Get(submissionsCacheKey); found {
		if submissions, ok := data.([]*models.ContactSubmission); ok {
			metrics.CacheHits.WithLabelValues(submissionsCacheName).Inc()
			return submissions, nil
		}
		logger.Error("Invalid submissions cache data type")
		sc.cache.Delete(submissionsCacheKey)
	}

	metrics.CacheMisses.WithLabelValues(submissionsCacheName).Inc()

	sc.mu.Lock()
	gen := sc.generation
	sc.mu.Unlock()

	// Concurrent misses share one query. Keyed by generation so a reader
	// arriving after Invalidate never joins a fetch that started before it.
	// The query outlives any single caller's cancellation.
	ch := sc.flight.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		submissions, err := sc.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		// Skip the store if a write landed while we were reading
		sc.mu.Lock()
		if gen == sc.generation {
			sc.cache.Set(submissionsCacheKey, submissions, sc.ttl)
		}
		sc.mu.Unlock()

		logger.Debug("Submissions cache refreshed", zap.Int("count", len(submissions)))
		return submissions, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*models.ContactSubmission), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops the cached list
func (sc *SubmissionsCache) Invalidate() {
	sc.mu.Lock()
	sc.generation++
	sc.cache.Delete(submissionsCacheKey)
	sc.mu.Unlock()
}
