package bot

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherKeepsChatOrder(t *testing.T) {
	d := newDispatcher()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 50; i++ {
		i := i
		d.Submit(1, func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	d.Wait()

	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestDispatcherRunsChatsConcurrently(t *testing.T) {
	d := newDispatcher()

	release := make(chan struct{})
	var done atomic.Bool
	d.Submit(1, func() { <-release })
	d.Submit(2, func() { done.Store(true) })

	assert.Eventually(t, done.Load, time.Second, 5*time.Millisecond)
	close(release)
	d.Wait()
}

func TestDispatcherAcceptsJobsAfterDrain(t *testing.T) {
	d := newDispatcher()

	var n atomic.Int32
	d.Submit(7, func() { n.Add(1) })
	d.Wait()
	d.Submit(7, func() { n.Add(1) })
	d.Wait()

	assert.Equal(t, int32(2), n.Load())
}
