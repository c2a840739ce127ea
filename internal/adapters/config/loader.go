// Package config provides the configuration loader for stencil.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// SupportedVersion is the configuration schema version understood by the loader.
const SupportedVersion = "1"

var validPageNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds stencil.yaml in cwd or one of its parents and returns the project it describes.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Stencilfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn("unsupported config version, reading as version "+SupportedVersion,
			"version", file.Version, "path", configPath)
	}

	root := resolveRoot(configPath, file.Root)
	outDir := resolveDir(root, file.OutDir, domain.DefaultOutDir)
	if err := validateOutDir(root, outDir); err != nil {
		return nil, zerr.With(err, "config", configPath)
	}

	dtos := file.Pages
	if len(dtos) == 0 {
		dtos = []*PageDTO{{
			Name:     domain.DefaultPageName,
			Template: file.Template,
			Title:    file.Title,
		}}
	} else if file.Template != "" || file.Title != "" {
		l.Logger.Warn("top-level 'template' and 'title' have no effect when pages are defined",
			"path", configPath)
	}

	pages, err := buildPages(root, outDir, enabled(file.Cache, true), dtos)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}

	return &domain.Project{
		Root:       root,
		OutDir:     outDir,
		ConfigFile: configPath,
		Pages:      pages,
	}, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "cwd", cwd)
}

func buildPages(root, outDir string, cacheDefault bool, dtos []*PageDTO) ([]domain.Page, error) {
	pages := make([]domain.Page, 0, len(dtos))
	names := make(map[string]struct{}, len(dtos))
	outputs := make(map[string]string, len(dtos))

	for i, dto := range dtos {
		if dto == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidPageName, ""), "index", i)
		}
		if err := validatePageName(dto.Name); err != nil {
			return nil, err
		}
		if _, ok := names[dto.Name]; ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrDuplicatePage, ""), "page", dto.Name)
		}
		names[dto.Name] = struct{}{}

		filename, err := resolveFilename(outDir, dto.Filename)
		if err != nil {
			return nil, zerr.With(err, "page", dto.Name)
		}
		if other, ok := outputs[filename]; ok {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateOutput, ""), "filename", filename)
			return nil, zerr.With(zerr.With(err, "page", dto.Name), "other_page", other)
		}
		outputs[filename] = dto.Name

		pages = append(pages, domain.Page{
			Name:     dto.Name,
			Template: resolveTemplate(root, dto.Template),
			Filename: filename,
			Title:    defaultString(dto.Title, domain.DefaultTitle),
			Data:     dto.Data,
			Cache:    domain.CacheConfig{CachingEnabled: enabled(dto.Cache, cacheDefault)},
		})
	}

	return pages, nil
}

// resolveFilename cleans a page output path and rejects paths that leave outDir.
func resolveFilename(outDir, filename string) (string, error) {
	if filename == "" {
		return domain.DefaultFilename, nil
	}
	if filepath.IsAbs(filename) {
		return "", zerr.With(zerr.Wrap(domain.ErrOutputPathOutsideRoot, ""), "filename", filename)
	}

	cleaned := filepath.Clean(filepath.FromSlash(filename))
	rel, err := filepath.Rel(outDir, filepath.Join(outDir, cleaned))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(domain.ErrOutputPathOutsideRoot, ""), "filename", filename)
	}
	return rel, nil
}

// validateOutDir rejects output directories that are the root itself or lie outside it.
func validateOutDir(root, outDir string) error {
	rel, err := filepath.Rel(root, outDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidOutDir, ""), "outDir", outDir)
	}
	return nil
}

// resolveTemplate returns the absolute template path. Empty selects the built-in template.
func resolveTemplate(root, template string) string {
	if template == "" {
		return ""
	}
	return resolveDir(root, template, "")
}

func resolveRoot(configPath, configuredRoot string) string {
	return resolveDir(filepath.Dir(configPath), configuredRoot, "")
}

// resolveDir resolves configured against base, falling back to fallback when configured is empty.
func resolveDir(base, configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(base, configured))
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into the target struct.
// An empty file decodes to the zero value.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from cwd
	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, zerr.With(zerr.Wrap(err, ""), "path", configPath))
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(domain.ErrConfigParseFailed, zerr.With(zerr.Wrap(err, ""), "path", configPath))
	}

	return nil
}

// validatePageName checks that the page name is non-empty and contains only safe characters.
func validatePageName(name string) error {
	if !validPageNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidPageName, ""), "page", name)
	}
	return nil
}

func enabled(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
