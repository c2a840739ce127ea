package domain

import "go.trai.ch/zerr"

var (
	// ErrDependencyReadFailed is returned when the nested compilation could not read a tracked artifact.
	ErrDependencyReadFailed = zerr.New("failed to read template dependency")

	// ErrHashComputationFailed is returned when a compilation result cannot be fingerprinted.
	ErrHashComputationFailed = zerr.New("failed to compute compilation hash")

	// ErrEvaluationFailed is returned when the render step fails.
	ErrEvaluationFailed = zerr.New("template evaluation failed")

	// ErrEmitFailed is returned when the rendered output cannot be written.
	ErrEmitFailed = zerr.New("failed to emit rendered output")

	// ErrBuildCycleFailed is returned when at least one page failed during a build cycle.
	ErrBuildCycleFailed = zerr.New("build cycle failed")

	// ErrMalformedCompilation is returned when a compilation result is missing required fields.
	ErrMalformedCompilation = zerr.New("malformed compilation result")

	// ErrTemplateParseFailed is returned when a template cannot be parsed during nested compilation.
	ErrTemplateParseFailed = zerr.New("failed to parse template")

	// ErrTemplateCycle is returned when a template includes itself, directly or through a partial.
	ErrTemplateCycle = zerr.New("template include cycle detected")

	// ErrConfigNotFound is returned when no configuration file can be found.
	ErrConfigNotFound = zerr.New("could not find stencil.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidPageName is returned when a page name contains invalid characters.
	ErrInvalidPageName = zerr.New("page name can only contain alphanumeric characters, hyphens and underscores")

	// ErrDuplicatePage is returned when two pages share the same name.
	ErrDuplicatePage = zerr.New("duplicate page name")

	// ErrDuplicateOutput is returned when two pages would write the same output file.
	ErrDuplicateOutput = zerr.New("duplicate output filename")

	// ErrOutputPathOutsideRoot is returned when an output path escapes the output directory.
	ErrOutputPathOutsideRoot = zerr.New("output path is outside output directory")

	// ErrInvalidOutDir is returned when the output directory is not a subdirectory of the project root.
	ErrInvalidOutDir = zerr.New("outDir must be a subdirectory of the project root")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrWatcherStartFailed is returned when the file system watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherClosed is returned when the file watcher stops delivering events while still in use.
	ErrWatcherClosed = zerr.New("file watcher closed unexpectedly")
)
