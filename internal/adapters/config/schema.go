package config

// Stencilfile represents the structure of the stencil.yaml configuration file.
type Stencilfile struct {
	Version string `yaml:"version"`
	Root    string `yaml:"root"`
	OutDir  string `yaml:"outDir"`
	// Cache is the project-wide default. Nil means enabled.
	Cache *bool `yaml:"cache"`
	// Template and Title configure the implicit page used when Pages is empty.
	Template string     `yaml:"template"`
	Title    string     `yaml:"title"`
	Pages    []*PageDTO `yaml:"pages"`
}

// PageDTO represents a page definition in the configuration.
type PageDTO struct {
	Name     string         `yaml:"name"`
	Template string         `yaml:"template"`
	Filename string         `yaml:"filename"`
	Title    string         `yaml:"title"`
	Cache    *bool          `yaml:"cache"`
	Data     map[string]any `yaml:"data"`
}
