package readthrough_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/finance-tracker/internal/application/readthrough"
	"github.com/avatarctic/finance-tracker/internal/core/domain/cache"
	"github.com/avatarctic/finance-tracker/test/mocks"
)

type item struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type totals struct {
	TotalExpenses float64 `json:"totalExpenses"`
	TotalBudgets  float64 `json:"totalBudgets"`
}

func TestGetOrCompute_HitSkipsProducer(t *testing.T) {
	store := mocks.NewMemoryStore()
	c := readthrough.New(store)
	ctx := context.Background()

	first, err := readthrough.GetOrCompute(ctx, c, "expenses:u1", func(ctx context.Context) ([]item, error) {
		return []item{{Description: "Coffee", Amount: 5}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []item{{Description: "Coffee", Amount: 5}}, first)

	called := false
	second, err := readthrough.GetOrCompute(ctx, c, "expenses:u1", func(ctx context.Context) ([]item, error) {
		called = true
		return []item{}, nil
	})
	require.NoError(t, err)
	require.False(t, called, "producer must not run on a hit")
	require.Equal(t, first, second)
	require.Equal(t, 1, store.Sets)
}

func TestGetOrCompute_RoundTripIsLossless(t *testing.T) {
	c := readthrough.New(mocks.NewMemoryStore())
	ctx := context.Background()
	payload := map[string]any{
		"s":      "text",
		"n":      12.5,
		"i":      float64(3),
		"b":      true,
		"null":   nil,
		"nested": map[string]any{"list": []any{float64(1), "two", false}},
	}

	produced, err := readthrough.GetOrCompute(ctx, c, "k", func(ctx context.Context) (map[string]any, error) {
		return payload, nil
	})
	require.NoError(t, err)
	require.Equal(t, payload, produced)

	cached, err := readthrough.GetOrCompute(ctx, c, "k", func(ctx context.Context) (map[string]any, error) {
		return nil, errors.New("should not run")
	})
	require.NoError(t, err)
	require.Equal(t, payload, cached)
}

func TestGetOrCompute_ReportsAreNotSharedAcrossUsers(t *testing.T) {
	c := readthrough.New(mocks.NewMemoryStore())
	ctx := context.Background()

	u1, err := readthrough.GetOrCompute(ctx, c, "reports:u1:monthly", func(ctx context.Context) (totals, error) {
		return totals{TotalExpenses: 300, TotalBudgets: 3000}, nil
	})
	require.NoError(t, err)
	require.Equal(t, totals{TotalExpenses: 300, TotalBudgets: 3000}, u1)

	u2, err := readthrough.GetOrCompute(ctx, c, "reports:u2:monthly", func(ctx context.Context) (totals, error) {
		return totals{TotalExpenses: 1, TotalBudgets: 2}, nil
	})
	require.NoError(t, err)
	require.Equal(t, totals{TotalExpenses: 1, TotalBudgets: 2}, u2)

	again, err := readthrough.GetOrCompute(ctx, c, "reports:u1:monthly", func(ctx context.Context) (totals, error) {
		return totals{}, nil
	})
	require.NoError(t, err)
	require.Equal(t, u1, again)
}

func TestGetOrCompute_ProducerFailureIsNotCached(t *testing.T) {
	store := mocks.NewMemoryStore()
	c := readthrough.New(store)
	ctx := context.Background()
	boom := errors.New("db down")

	_, err := readthrough.GetOrCompute(ctx, c, "expenses:u1", func(ctx context.Context) ([]item, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, cache.ErrProducer)
	require.Equal(t, 0, store.Sets)

	calls := 0
	_, err = readthrough.GetOrCompute(ctx, c, "expenses:u1", func(ctx context.Context) ([]item, error) {
		calls++
		return []item{}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestGetOrCompute_ExpiredEntryIsRecomputed(t *testing.T) {
	store := mocks.NewMemoryStore()
	c := readthrough.New(store)
	ctx := context.Background()
	calls := 0
	produce := func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := readthrough.GetOrCompute(ctx, c, "n", produce)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	store.Advance(cache.DefaultTTL - time.Second)
	v, err = readthrough.GetOrCompute(ctx, c, "n", produce)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	store.Advance(2 * time.Second)
	v, err = readthrough.GetOrCompute(ctx, c, "n", produce)
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, 2, calls)
}

func TestGetOrCompute_WritesWithDefaultTTL(t *testing.T) {
	var gotTTL time.Duration
	var gotValue []byte
	store := &mocks.CacheStoreMock{
		SetEXFn: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			gotTTL = ttl
			gotValue = value
			return nil
		},
	}
	c := readthrough.New(store)
	_, err := readthrough.GetOrCompute(context.Background(), c, "reports:u1:yearly", func(ctx context.Context) (totals, error) {
		return totals{TotalExpenses: 300, TotalBudgets: 3000}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3600*time.Second, gotTTL)
	require.JSONEq(t, `{"totalExpenses":300,"totalBudgets":3000}`, string(gotValue))
	require.Equal(t, 3600*time.Second, c.TTL())
}

func TestGetOrCompute_WithTTLOverride(t *testing.T) {
	var gotTTL time.Duration
	store := &mocks.CacheStoreMock{
		SetEXFn: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			gotTTL = ttl
			return nil
		},
	}
	c := readthrough.New(store, readthrough.WithTTL(time.Minute), readthrough.WithTTL(0))
	_, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, time.Minute, gotTTL)
}

func TestGetOrCompute_StoreUnavailableSkipsProducer(t *testing.T) {
	store := &mocks.CacheStoreMock{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, cache.ErrStoreUnavailable
		},
	}
	c := readthrough.New(store)
	called := false
	_, err := readthrough.GetOrCompute(context.Background(), c, "expenses:u1", func(ctx context.Context) ([]item, error) {
		called = true
		return nil, nil
	})
	require.ErrorIs(t, err, cache.ErrStoreUnavailable)
	require.False(t, called)
}

func TestGetOrCompute_ReadErrorIsSurfaced(t *testing.T) {
	store := &mocks.CacheStoreMock{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return nil, false, errors.New("WRONGTYPE")
		},
	}
	c := readthrough.New(store)
	called := false
	_, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		called = true
		return 1, nil
	})
	require.ErrorIs(t, err, cache.ErrStoreRead)
	require.False(t, called)
}

func TestGetOrCompute_WriteErrorIsSurfaced(t *testing.T) {
	store := &mocks.CacheStoreMock{
		SetEXFn: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			return errors.New("OOM command not allowed")
		},
	}
	c := readthrough.New(store)
	calls := 0
	_, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.ErrorIs(t, err, cache.ErrStoreWrite)
	require.Equal(t, 1, calls, "producer runs exactly once, no retry")
}

func TestGetOrCompute_UnserializableValueIsNotStored(t *testing.T) {
	store := mocks.NewMemoryStore()
	c := readthrough.New(store)
	_, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (float64, error) {
		return math.NaN(), nil
	})
	require.ErrorIs(t, err, cache.ErrSerialization)
	require.Equal(t, 0, store.Sets)
}

func TestGetOrCompute_CorruptEntryIsSurfaced(t *testing.T) {
	store := &mocks.CacheStoreMock{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			return []byte("{not json"), true, nil
		},
	}
	c := readthrough.New(store)
	_, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (int, error) { return 1, nil })
	require.ErrorIs(t, err, cache.ErrSerialization)
}

func TestGetOrCompute_RejectsEmptyKeyAndNilProducer(t *testing.T) {
	store := mocks.NewMemoryStore()
	c := readthrough.New(store)

	_, err := readthrough.GetOrCompute(context.Background(), c, "", func(ctx context.Context) (int, error) { return 1, nil })
	require.ErrorIs(t, err, cache.ErrEmptyKey)

	_, err = readthrough.GetOrCompute[int](context.Background(), c, "k", nil)
	require.ErrorIs(t, err, cache.ErrProducer)
	require.Equal(t, 0, store.Gets)
}

func TestGetOrCompute_ConcurrentMissesAreNotCoalescedByDefault(t *testing.T) {
	c := readthrough.New(mocks.NewMemoryStore())
	var calls atomic.Int32
	var entered sync.WaitGroup
	entered.Add(2)
	produce := func(ctx context.Context) (int, error) {
		calls.Add(1)
		entered.Done()
		entered.Wait() // both callers are inside the producer at once
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = readthrough.GetOrCompute(context.Background(), c, "k", produce)
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent producers did not both run")
	}
	require.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_SingleFlightSharesOneProducer(t *testing.T) {
	c := readthrough.New(mocks.NewMemoryStore(), readthrough.WithSingleFlight())
	var calls atomic.Int32
	release := make(chan struct{})
	produce := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	const n = 8
	results := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := readthrough.GetOrCompute(context.Background(), c, "k", produce)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		require.Equal(t, 7, v)
	}
}

func TestGetOrCompute_SingleFlightSurvivesLeaderCancellation(t *testing.T) {
	c := readthrough.New(mocks.NewMemoryStore(), readthrough.WithSingleFlight())
	started := make(chan struct{})
	release := make(chan struct{})
	var producerErr error
	produce := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		producerErr = ctx.Err()
		return 7, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := readthrough.GetOrCompute(leaderCtx, c, "k", produce)
		leaderErr <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	follower := make(chan result, 1)
	go func() {
		v, err := readthrough.GetOrCompute(context.Background(), c, "k", produce)
		follower <- result{v, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-follower
	require.NoError(t, got.err)
	require.Equal(t, 7, got.v)
	require.NoError(t, producerErr)

	// the abandoned flight still populated the cache
	v, err := readthrough.GetOrCompute(context.Background(), c, "k", func(ctx context.Context) (int, error) {
		return 0, errors.New("should not run")
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestGetOrCompute_SingleFlightCountsOneMissPerCall(t *testing.T) {
	m := readthrough.NewMetrics(prometheus.NewRegistry())
	store := mocks.NewMemoryStore()
	c := readthrough.New(store, readthrough.WithSingleFlight(), readthrough.WithMetrics(m))

	_, err := readthrough.GetOrCompute(context.Background(), c, "expenses:u1", func(ctx context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups().WithLabelValues("expenses", "miss")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Lookups().WithLabelValues("expenses", "hit")))
	require.Equal(t, 2, store.Gets)
}

func TestGetOrCompute_RecordsMetrics(t *testing.T) {
	m := readthrough.NewMetrics(prometheus.NewRegistry())
	c := readthrough.New(mocks.NewMemoryStore(), readthrough.WithMetrics(m))
	ctx := context.Background()
	produce := func(ctx context.Context) (int, error) { return 1, nil }

	_, err := readthrough.GetOrCompute(ctx, c, "expenses:u1", produce)
	require.NoError(t, err)
	_, err = readthrough.GetOrCompute(ctx, c, "expenses:u1", produce)
	require.NoError(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups().WithLabelValues("expenses", "miss")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Lookups().WithLabelValues("expenses", "hit")))
}

func TestClose_ReleasesStoreOnce(t *testing.T) {
	closes := 0
	c := readthrough.New(&mocks.CacheStoreMock{CloseFn: func() error {
		closes++
		return nil
	}})
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.Equal(t, 1, closes)
}

func TestGetOrCompute_FailureDoesNotPoisonLaterCalls(t *testing.T) {
	fail := true
	store := mocks.NewMemoryStore()
	flaky := &mocks.CacheStoreMock{
		GetFn: func(ctx context.Context, key string) ([]byte, bool, error) {
			if fail {
				return nil, false, cache.ErrStoreUnavailable
			}
			return store.Get(ctx, key)
		},
		SetEXFn: store.SetEX,
	}
	c := readthrough.New(flaky)
	produce := func(ctx context.Context) (string, error) { return "ok", nil }

	_, err := readthrough.GetOrCompute(context.Background(), c, "k", produce)
	require.Error(t, err)

	fail = false
	v, err := readthrough.GetOrCompute(context.Background(), c, "k", produce)
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}
