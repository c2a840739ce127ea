package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stencil/internal/adapters/fs"
	"go.trai.ch/stencil/internal/adapters/logger"
	"go.trai.ch/stencil/internal/core/ports"
)

const (
	// WatcherNodeID is the unique identifier for the watcher factory Graft node.
	WatcherNodeID graft.ID = "adapter.watcher"
	// ContentFilterNodeID is the unique identifier for the content filter Graft node.
	ContentFilterNodeID graft.ID = "adapter.watcher.content_filter"
)

// Factory opens a new watcher. Watchers hold OS resources, so they are only
// created by commands that watch.
type Factory func(ignores ...string) (ports.Watcher, error)

func init() {
	graft.Register(graft.Node[Factory]{
		ID:        WatcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (Factory, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return func(ignores ...string) (ports.Watcher, error) {
				return NewWatcher(walker, log, ignores...)
			}, nil
		},
	})

	graft.Register(graft.Node[*ContentFilter]{
		ID:        ContentFilterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.FileHasherNodeID},
		Run: func(ctx context.Context) (*ContentFilter, error) {
			hasher, err := graft.Dep[ports.FileHasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewContentFilter(hasher), nil
		},
	})
}
