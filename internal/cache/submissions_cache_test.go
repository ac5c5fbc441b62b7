package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trucklogix/site-api/internal/models"
)

type countingFetcher struct {
	calls int
	data  []*models.ContactSubmission
	err   error
	// hook runs inside fetch, before it returns
	hook func()
}

func (f *countingFetcher) fetch(context.Context) ([]*models.ContactSubmission, error) {
	f.calls++
	if f.hook != nil {
		f.hook()
	}
	return f.data, f.err
}

func TestSubmissionsCache_HitAfterMiss(t *testing.T) {
	f := &countingFetcher{data: []*models.ContactSubmission{{ID: "a"}}}
	c := NewSubmissionsCache(f.fetch, 30)

	first, err := c.Get(context.Background())
	require.NoError(t, err)
	second, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls)
}

func TestSubmissionsCache_InvalidateForcesReload(t *testing.T) {
	f := &countingFetcher{data: []*models.ContactSubmission{{ID: "a"}}}
	c := NewSubmissionsCache(f.fetch, 30)

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	f.data = []*models.ContactSubmission{{ID: "b"}, {ID: "a"}}
	c.Invalidate()

	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, f.calls)
}

func TestSubmissionsCache_DisabledAlwaysFetches(t *testing.T) {
	f := &countingFetcher{}
	c := NewSubmissionsCache(f.fetch, 0)

	_, _ = c.Get(context.Background())
	_, _ = c.Get(context.Background())

	assert.Equal(t, 2, f.calls)
}

func TestSubmissionsCache_ErrorNotCached(t *testing.T) {
	f := &countingFetcher{err: errors.New("db down")}
	c := NewSubmissionsCache(f.fetch, 30)

	_, err := c.Get(context.Background())
	assert.Error(t, err)

	f.err = nil
	_, err = c.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestSubmissionsCache_WriteDuringReadIsNotHidden(t *testing.T) {
	f := &countingFetcher{data: []*models.ContactSubmission{{ID: "stale"}}}
	c := NewSubmissionsCache(f.fetch, 30)
	f.hook = func() {
		f.hook = nil
		c.Invalidate()
	}

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	f.data = []*models.ContactSubmission{{ID: "fresh"}, {ID: "stale"}}
	got, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, f.calls)
}

func TestSubmissionsCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	c := NewSubmissionsCache(func(context.Context) ([]*models.ContactSubmission, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		return []*models.ContactSubmission{{ID: "a"}}, nil
	}, 30)

	var wg sync.WaitGroup
	results := make([][]*models.ContactSubmission, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Get(context.Background())
			assert.NoError(t, err)
			results[i] = got
		}(i)
	}

	<-entered
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, got := range results {
		assert.Len(t, got, 1)
	}
}

func TestSubmissionsCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	c := NewSubmissionsCache(func(ctx context.Context) ([]*models.ContactSubmission, error) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []*models.ContactSubmission{{ID: "a"}}, nil
	}, 30)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(firstCtx)
		firstErr <- err
	}()
	<-entered

	type result struct {
		got []*models.ContactSubmission
		err error
	}
	second := make(chan result, 1)
	go func() {
		got, err := c.Get(context.Background())
		second <- result{got, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.got, 1)
	assert.Equal(t, int32(1), calls.Load())
}
