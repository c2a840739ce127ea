package gotmpl

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Evaluator = (*Evaluator)(nil)

// View is the data a page template is executed with.
type View struct {
	// Page is the page name.
	Page string
	// Title is the page title.
	Title string
	// Data holds the user supplied parameters of the page.
	Data map[string]any
	// Hash is the compilation hash the output is rendered from.
	Hash string
}

// Evaluator executes compiled passes with html/template.
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{now: time.Now}
}

// Evaluate renders the compilation with the page's parameters.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	page *domain.Page,
	compilation *domain.Compilation,
) (*domain.RenderedOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpl, err := assemble(compilation)
	if err != nil {
		return nil, err
	}

	view := View{
		Page:  page.Name,
		Title: page.Title,
		Data:  page.Data,
		Hash:  compilation.Hash,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to execute template"), "template", compilation.Entry.String())
	}

	return &domain.RenderedOutput{
		Content:    buf.Bytes(),
		Hash:       compilation.Hash,
		RenderedAt: e.now(),
	}, nil
}

// assemble builds one template set from the pass and its partials.
// Partials are registered under the name their parent used to reference them.
func assemble(compilation *domain.Compilation) (*template.Template, error) {
	entry := compilation.Entry.String()

	root, err := template.New(entry).Parse(string(compilation.Source))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse template"), "template", entry)
	}

	registered := map[string]string{entry: entry}
	for pass := range compilation.Walk() {
		if pass == compilation {
			continue
		}

		passEntry := pass.Entry.String()
		if prev, ok := registered[pass.Name]; ok {
			if prev == passEntry {
				continue
			}
			return nil, zerr.With(
				zerr.With(zerr.New("partial name refers to two templates"), "name", pass.Name),
				"templates", prev+", "+passEntry,
			)
		}

		if _, err := root.New(pass.Name).Parse(string(pass.Source)); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse partial"), "template", passEntry)
		}
		registered[pass.Name] = passEntry
	}

	return root, nil
}
