package projection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/typly/artifact"
)

func TestCache_Get(t *testing.T) {
	ctx := context.Background()
	fingerprint := artifact.Fingerprint{ModTime: time.Unix(1700000000, 0), Size: 120}
	changed := artifact.Fingerprint{ModTime: time.Unix(1700000500, 0), Size: 121}

	t.Run("repeated get builds once", func(t *testing.T) {
		cache := New()
		builds := 0
		build := func(ctx context.Context) (interface{}, error) {
			builds++
			return fmt.Sprintf("built-%v", builds), nil
		}
		first, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
		assert.Nil(t, err)
		second, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
		assert.Nil(t, err)
		assert.Equal(t, 1, builds)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, cache.Size())
	})

	t.Run("fingerprint change evicts and rebuilds", func(t *testing.T) {
		var evicted []string
		cache := New(WithEvictionHandler(func(name string, value interface{}) {
			evicted = append(evicted, fmt.Sprintf("%v=%v", name, value))
		}))
		builds := 0
		build := func(ctx context.Context) (interface{}, error) {
			builds++
			return fmt.Sprintf("built-%v", builds), nil
		}
		first, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
		assert.Nil(t, err)
		second, err := cache.Get(ctx, "com.acme.Person", changed, build)
		assert.Nil(t, err)
		assert.Equal(t, 2, builds)
		assert.NotEqual(t, first, second)
		assert.Equal(t, []string{"com.acme.Person=built-1"}, evicted)
	})

	t.Run("failed build is not retained", func(t *testing.T) {
		cache := New()
		builds := 0
		build := func(ctx context.Context) (interface{}, error) {
			builds++
			if builds == 1 {
				return nil, fmt.Errorf("artifact gone")
			}
			return "built", nil
		}
		_, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
		assert.NotNil(t, err)
		assert.Equal(t, 0, cache.Size())
		value, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
		assert.Nil(t, err)
		assert.Equal(t, "built", value)
		assert.Equal(t, 2, builds)
	})

	t.Run("concurrent demand shares one build", func(t *testing.T) {
		cache := New()
		var builds int32
		build := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&builds, 1)
			time.Sleep(2 * time.Millisecond)
			return "built", nil
		}
		wg := sync.WaitGroup{}
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, err := cache.Get(ctx, "com.acme.Person", fingerprint, build)
				assert.Nil(t, err)
				assert.Equal(t, "built", value)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	})

	t.Run("invalidate notifies handlers", func(t *testing.T) {
		var evicted []string
		cache := New(WithEvictionHandler(func(name string, value interface{}) {
			evicted = append(evicted, name)
		}))
		_, err := cache.Get(ctx, "com.acme.Person", fingerprint, func(ctx context.Context) (interface{}, error) {
			return "built", nil
		})
		assert.Nil(t, err)
		assert.True(t, cache.Invalidate("com.acme.Person"))
		assert.False(t, cache.Invalidate("com.acme.Person"))
		assert.Equal(t, []string{"com.acme.Person"}, evicted)
		assert.Equal(t, 0, cache.Size())
	})
}

func TestCache_CycleDetection(t *testing.T) {
	fingerprint := artifact.Fingerprint{ModTime: time.Unix(1700000000, 0), Size: 32}

	t.Run("self dependent build", func(t *testing.T) {
		cache := New()
		var build Build
		build = func(ctx context.Context) (interface{}, error) {
			return cache.Get(ctx, "com.acme.A", fingerprint, build)
		}
		_, err := cache.Get(context.Background(), "com.acme.A", fingerprint, build)
		cycleErr, ok := err.(*CycleError)
		if !assert.True(t, ok, "expected cycle error, got: %v", err) {
			return
		}
		assert.Equal(t, []string{"com.acme.A", "com.acme.A"}, cycleErr.Path)
	})

	t.Run("mutually dependent builds on one goroutine", func(t *testing.T) {
		cache := New()
		buildA := func(ctx context.Context) (interface{}, error) {
			return cache.Get(ctx, "com.acme.B", fingerprint, func(ctx context.Context) (interface{}, error) {
				return cache.Get(ctx, "com.acme.A", fingerprint, nil)
			})
		}
		_, err := cache.Get(context.Background(), "com.acme.A", fingerprint, buildA)
		cycleErr, ok := err.(*CycleError)
		if !assert.True(t, ok, "expected cycle error, got: %v", err) {
			return
		}
		assert.Equal(t, []string{"com.acme.A", "com.acme.B", "com.acme.A"}, cycleErr.Path)
	})

	t.Run("mutually dependent builds across goroutines", func(t *testing.T) {
		cache := New()
		aStarted := make(chan struct{})
		bStarted := make(chan struct{})

		buildA := func(ctx context.Context) (interface{}, error) {
			close(aStarted)
			<-bStarted
			return cache.Get(ctx, "com.acme.B", fingerprint, func(ctx context.Context) (interface{}, error) {
				return "b", nil
			})
		}
		buildB := func(ctx context.Context) (interface{}, error) {
			close(bStarted)
			<-aStarted
			return cache.Get(ctx, "com.acme.A", fingerprint, func(ctx context.Context) (interface{}, error) {
				return "a", nil
			})
		}

		var errA, errB error
		wg := sync.WaitGroup{}
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errA = cache.Get(context.Background(), "com.acme.A", fingerprint, buildA)
		}()
		go func() {
			defer wg.Done()
			_, errB = cache.Get(context.Background(), "com.acme.B", fingerprint, buildB)
		}()
		wg.Wait()

		cycles := 0
		for _, err := range []error{errA, errB} {
			if _, ok := err.(*CycleError); ok {
				cycles++
			}
		}
		assert.True(t, cycles >= 1, "expected at least one cycle error, got: %v / %v", errA, errB)
	})
}
