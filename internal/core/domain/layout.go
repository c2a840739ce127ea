package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "stencil.yaml"

	// DefaultOutDir is the output directory used when none is configured.
	DefaultOutDir = "dist"

	// DefaultFilename is the output filename used when a page does not set one.
	DefaultFilename = "index.html"

	// DefaultPageName is the name given to the implicit page of a project without pages.
	DefaultPageName = "index"

	// DefaultTitle is the title used when a page does not set one.
	DefaultTitle = "Stencil App"

	// DefaultTemplateName is the logical name of the built-in template.
	DefaultTemplateName = "stencil:default.html"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)
