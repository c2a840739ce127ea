package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/stencil/internal/adapters/emit"
	"go.trai.ch/stencil/internal/adapters/fs"
	"go.trai.ch/stencil/internal/adapters/gotmpl"
	"go.trai.ch/stencil/internal/adapters/telemetry"
	"go.trai.ch/stencil/internal/adapters/watcher"
	"go.trai.ch/stencil/internal/app"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/stencil/internal/core/ports/mocks"
	"go.trai.ch/stencil/internal/engine/builder"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"stencil": main,
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
	})
}

func newApp(ctrl *gomock.Controller, loader ports.ConfigLoader, log ports.Logger) *app.App {
	hasher := fs.NewHasher()
	factory := builder.NewFactory(gotmpl.NewCompiler(), hasher, gotmpl.NewEvaluator(), telemetry.NewNoOpTracer())
	newWatcher := func(...string) (ports.Watcher, error) {
		return mocks.NewMockWatcher(ctrl), nil
	}
	return app.New(loader, factory, emit.NewWriter(), log, newWatcher, watcher.NewContentFilter(hasher)).
		WithOutput(io.Discard)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run logs the error and returns 1 when loading fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("load failed"))

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(ctrl, mockLoader, mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"build"}, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildCycleFailure verifies that page failures are not logged a second time.
func TestRun_BuildCycleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	broken := filepath.Join(root, "broken.html")
	if err := os.WriteFile(broken, []byte(`{{template "missing.html" .}}`), domain.PrivateFilePerm); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(gomock.Any()).Return(&domain.Project{
		Root:   root,
		OutDir: filepath.Join(root, domain.DefaultOutDir),
		Pages: []domain.Page{{
			Name:     "broken",
			Template: broken,
			Filename: "index.html",
			Cache:    domain.DefaultCacheConfig(),
		}},
	}, nil)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	// Logged once by the app, not again by run.
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	application := newApp(ctrl, mockLoader, mockLogger)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"build"}, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_AppliesOptions verifies that options are applied to the app before execution.
func TestRun_AppliesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	application := newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	applied := false
	exitCode := run(context.Background(), []string{"version"}, io.Discard, provider, func(*app.App) {
		applied = true
	})

	assert.Equal(t, 0, exitCode)
	assert.True(t, applied)
}
