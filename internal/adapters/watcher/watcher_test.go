package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stencil/internal/adapters/fs"
	"go.trai.ch/stencil/internal/adapters/watcher"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/stencil/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, root string, ignores ...string) <-chan ports.WatchEvent {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(fs.NewWalker(), mockLogger, ignores...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start(t.Context(), root))

	events := make(chan ports.WatchEvent, 16)
	go func() {
		defer close(events)
		for event := range w.Events() {
			events <- event
		}
	}()
	return events
}

func waitForPath(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "watcher closed before %s was seen", path)
			if event.Path == path {
				return event
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "index.html")
	require.NoError(t, os.WriteFile(target, []byte("a"), domain.PrivateFilePerm))

	events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(target, []byte("b"), domain.PrivateFilePerm))

	event := waitForPath(t, events, target)
	assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, event.Operation)
}

func TestWatcher_FollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	dir := filepath.Join(root, "partials")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	waitForPath(t, events, dir)

	target := filepath.Join(dir, "nav.html")
	require.NoError(t, os.WriteFile(target, []byte("<nav></nav>"), domain.PrivateFilePerm))
	waitForPath(t, events, target)
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(fs.NewWalker(), mockLogger)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), t.TempDir()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "second stop is a no-op")

	for range w.Events() {
		t.Fatal("unexpected event after stop")
	}
}
