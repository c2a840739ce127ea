// Package app implements the application layer for stencil.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.trai.ch/stencil/internal/adapters/telemetry"
	"go.trai.ch/stencil/internal/adapters/watcher"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/stencil/internal/engine/builder"
	"go.trai.ch/stencil/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	builders     *builder.Factory
	emitter      ports.Emitter
	logger       ports.Logger
	newWatcher   watcher.Factory
	filter       *watcher.ContentFilter
	out          io.Writer
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	builders *builder.Factory,
	emitter ports.Emitter,
	log ports.Logger,
	newWatcher watcher.Factory,
	filter *watcher.ContentFilter,
) *App {
	return &App{
		configLoader: loader,
		builders:     builders,
		emitter:      emitter,
		logger:       log,
		newWatcher:   newWatcher,
		filter:       filter,
		out:          os.Stdout,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithOutput sets the writer that receives the per-page cycle summary.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithDebounceWindow sets how long watch mode waits for file events to settle.
func (a *App) WithDebounceWindow(d time.Duration) *App {
	a.debounce = d
	return a
}

// logSwitches is implemented by loggers that support runtime reconfiguration.
type logSwitches interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// SetLogMode switches the logger between pretty and JSON output and toggles debug output.
func (a *App) SetLogMode(json, verbose bool) {
	if s, ok := a.logger.(logSwitches); ok {
		s.SetJSON(json)
		s.SetVerbose(verbose)
	}
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	NoCache bool
}

// Build runs a single build cycle for every page and writes the results.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	project, err := a.loadProject(opts.NoCache)
	if err != nil {
		return err
	}

	shutdown := a.setupTelemetry()
	defer func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}()

	return a.runCycle(ctx, project, a.builders.NewAll(project))
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	NoCache bool
}

// Watch builds every page, then rebuilds whenever a file below the project root changes.
// Every rebuild re-runs the nested compilation of every page; the invalidation gate
// decides per page whether evaluation runs. Watch returns nil when ctx is canceled.
//
//nolint:cyclop // orchestration function
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	project, err := a.loadProject(opts.NoCache)
	if err != nil {
		return err
	}

	shutdown := a.setupTelemetry()
	defer func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}()

	builders := a.builders.NewAll(project)
	if err := a.runCycle(ctx, project, builders); err != nil {
		a.logger.Warn("initial build failed, waiting for changes")
	}
	a.prime(builders)

	var ignores []string
	if filepath.Dir(project.OutDir) == project.Root {
		ignores = append(ignores, filepath.Base(project.OutDir))
	}
	w, err := a.newWatcher(ignores...)
	if err != nil {
		return err
	}
	defer func() {
		_ = w.Stop()
	}()

	if err := w.Start(ctx, project.Root); err != nil {
		return err
	}
	a.logger.Info("watching for changes", "root", project.Root)

	triggers := make(chan []string)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case triggers <- paths:
		case <-ctx.Done():
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	// Event Routine
	g.Go(func() error {
		for event := range w.Events() {
			if within(project.OutDir, event.Path) {
				continue
			}
			debouncer.Add(event.Path)
		}
		if ctx.Err() != nil {
			return nil
		}
		return domain.ErrWatcherClosed
	})

	// Rebuild Routine
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-triggers:
				a.rebuild(ctx, project, builders, paths)
			}
		}
	})

	// Shutdown Routine
	g.Go(func() error {
		<-ctx.Done()
		debouncer.Flush()
		return w.Stop()
	})

	return g.Wait()
}

// rebuild runs one cycle for a batch of changed paths. Failures are logged, never returned.
func (a *App) rebuild(ctx context.Context, project *domain.Project, builders []*builder.Builder, paths []string) {
	changed := a.filter.Changed(paths)
	if len(changed) == 0 {
		a.logger.Debug("ignoring events with unchanged content", "files", len(paths))
		return
	}

	a.logger.Info("change detected", "files", strings.Join(relativeTo(project.Root, changed), ", "))
	if project.ConfigFile != "" && slices.Contains(changed, project.ConfigFile) {
		a.logger.Warn("configuration changed, restart watch to apply it", "file", project.ConfigFile)
	}
	for _, b := range builders {
		if relevant := b.Relevant(changed); len(relevant) > 0 {
			a.logger.Debug("page depends on changed files", "page", b.Page().Name, "files", len(relevant))
		}
	}

	_ = a.runCycle(ctx, project, builders)
	a.prime(builders)
}

// runCycle runs one build cycle for all builders concurrently and emits their output.
// Each page failure is logged; the returned error only signals that at least one page failed.
func (a *App) runCycle(ctx context.Context, project *domain.Project, builders []*builder.Builder) error {
	reports := make([]*domain.CycleReport, len(builders))
	errs := make([]error, len(builders))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, b := range builders {
		g.Go(func() error {
			report, err := b.Cycle(ctx)
			if err == nil {
				page := b.Page()
				err = a.emitter.Emit(ctx, project.OutDir, page.Filename, report.Output)
			}
			reports[i], errs[i] = report, err
			return nil
		})
	}
	_ = g.Wait()

	out := output.New(a.out)
	var failed int
	for i, b := range builders {
		if errs[i] != nil {
			failed++
			a.logger.Error(errs[i])
			continue
		}
		report := reports[i]
		_, _ = fmt.Fprintln(a.out, output.CycleLine(out, report))
		a.logger.Debug("cycle finished",
			"page", report.Page,
			"decision", report.Decision.String(),
			"hash", report.Hash,
			"evaluations", report.Evaluations,
			"dependencies", len(report.Dependencies),
			"file", b.Page().Filename,
		)
	}

	if failed > 0 {
		return zerr.With(zerr.Wrap(domain.ErrBuildCycleFailed, ""), "failed_pages", failed)
	}
	return nil
}

// prime records the content of every tracked dependency so unchanged saves are ignored.
func (a *App) prime(builders []*builder.Builder) {
	for _, b := range builders {
		a.filter.Prime(func(yield func(string) bool) {
			for _, dep := range b.Dependencies() {
				if !yield(dep) {
					return
				}
			}
		})
	}
}

// Clean removes the project's output directory.
func (a *App) Clean(_ context.Context) error {
	project, err := a.loadProject(false)
	if err != nil {
		return err
	}

	a.logger.Info("removing output directory...", "path", project.OutDir)
	if err := os.RemoveAll(project.OutDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove output directory"), "path", project.OutDir)
	}
	a.logger.Info("removed output directory")
	return nil
}

func (a *App) loadProject(noCache bool) (*domain.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(domain.ErrFailedToGetRoot, err)
	}

	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if noCache {
		project = project.WithCachingDisabled()
	}
	return project, nil
}

// setupTelemetry routes finished spans to the logger at debug level.
func (a *App) setupTelemetry() func(context.Context) error {
	return telemetry.Install(telemetry.NewBridge(a.logger))
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func relativeTo(root string, paths []string) []string {
	rel := make([]string, len(paths))
	for i, p := range paths {
		if r, err := filepath.Rel(root, p); err == nil {
			rel[i] = r
		} else {
			rel[i] = p
		}
	}
	return rel
}
