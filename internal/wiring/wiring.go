// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stencil/internal/adapters/config"
	_ "go.trai.ch/stencil/internal/adapters/emit"
	_ "go.trai.ch/stencil/internal/adapters/fs"
	_ "go.trai.ch/stencil/internal/adapters/gotmpl"
	_ "go.trai.ch/stencil/internal/adapters/logger"
	_ "go.trai.ch/stencil/internal/adapters/telemetry"
	_ "go.trai.ch/stencil/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/stencil/internal/app"
	_ "go.trai.ch/stencil/internal/engine/builder"
)
