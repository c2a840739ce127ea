package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stencil/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stencil/internal/adapters/emit"    //nolint:depguard // Wired in app layer
	"go.trai.ch/stencil/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/stencil/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/stencil/internal/engine/builder"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds everything the CLI needs to run.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			builder.NodeID,
			emit.NodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.ContentFilterNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			factory, err := graft.Dep[*builder.Factory](ctx)
			if err != nil {
				return nil, err
			}

			emitter, err := graft.Dep[ports.Emitter](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			newWatcher, err := graft.Dep[watcher.Factory](ctx)
			if err != nil {
				return nil, err
			}

			filter, err := graft.Dep[*watcher.ContentFilter](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, factory, emitter, log, newWatcher, filter), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    app,
				Logger: log,
			}, nil
		},
	})
}
