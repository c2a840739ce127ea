package domain

// Page is one template render configuration. Each page owns its own cache record.
type Page struct {
	// Name identifies the page in logs and reports.
	Name string
	// Template is the absolute path of the entry template. Empty selects the built-in template.
	Template string
	// Filename is the output path relative to the project output directory.
	Filename string
	// Title is passed to the evaluation step.
	Title string
	// Data holds user supplied template parameters.
	Data map[string]any
	// Cache is the page's cache configuration.
	Cache CacheConfig
}

// EntryName returns the logical entry name of the page's template.
func (p *Page) EntryName() string {
	if p.Template == "" {
		return DefaultTemplateName
	}
	return p.Template
}

// Project is the loaded configuration of a stencil project.
type Project struct {
	// Root is the absolute project root.
	Root string
	// OutDir is the absolute output directory.
	OutDir string
	// ConfigFile is the path of the stencil.yaml the project was loaded from.
	ConfigFile string
	// Pages are the render configurations, in declaration order.
	Pages []Page
}

// WithCachingDisabled returns a copy of the project with caching disabled on every page.
func (p *Project) WithCachingDisabled() *Project {
	cp := *p
	cp.Pages = make([]Page, len(p.Pages))
	for i, page := range p.Pages {
		page.Cache = CacheConfig{CachingEnabled: false}
		cp.Pages[i] = page
	}
	return &cp
}
