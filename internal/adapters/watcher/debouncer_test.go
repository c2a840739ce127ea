package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stencil/internal/adapters/watcher"
)

func TestDebouncer_Add_CoalescesSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/site/partials/nav.html")
		d.Add("/site/index.html")
		d.Add("/site/partials/nav.html")
		assert.Equal(t, 2, d.Pending())

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/site/index.html", "/site/partials/nav.html"}, receivedPaths)
		assert.Zero(t, d.Pending())
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var mu sync.Mutex

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/site/a.html")
		time.Sleep(50 * time.Millisecond)

		// Second add restarts the window
		d.Add("/site/b.html")
		time.Sleep(50 * time.Millisecond)

		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/site/b.html")
		d.Add("/site/a.html")
		d.Flush()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/site/a.html", "/site/b.html"}, receivedPaths)

		// The stopped timer must not fire a second time.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})
	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/site/index.html")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/site/index.html")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Add("/site/index.html")
		d.Flush()
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var batches [][]string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			batches = append(batches, paths)
		})

		d.Add("/site/a.html")
		d.Flush()

		d.Add("/site/b.html")
		d.Add("/site/c.html")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 2)
		assert.Equal(t, []string{"/site/a.html"}, batches[0])
		assert.Equal(t, []string{"/site/b.html", "/site/c.html"}, batches[1])
	})
}
