// Package gotmpl compiles and evaluates html/template pages.
//
// Compilation reads an entry template and every partial it references through
// {{template "path"}} actions, producing one nested pass per partial. Evaluation
// assembles those passes into a template set and executes it.
package gotmpl

import (
	"context"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template/parse"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed default.html
var defaultTemplate []byte

var _ ports.ChildCompiler = (*Compiler)(nil)

// Compiler runs the nested compilation of a template and its partials.
type Compiler struct {
	readFile func(string) ([]byte, error)
}

// NewCompiler creates a Compiler reading templates from disk.
func NewCompiler() *Compiler {
	return &Compiler{readFile: os.ReadFile}
}

// Compile compiles the entry template and, recursively, every partial it references.
// An empty entry or domain.DefaultTemplateName selects the built-in template.
func (c *Compiler) Compile(ctx context.Context, entry string) (*domain.Compilation, error) {
	if entry == "" {
		entry = domain.DefaultTemplateName
	}
	return c.compile(ctx, entry, "", nil)
}

func (c *Compiler) compile(ctx context.Context, entry, name string, chain []string) (*domain.Compilation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if slices.Contains(chain, entry) {
		cycle := strings.Join(append(slices.Clone(chain), entry), " -> ")
		return nil, zerr.With(zerr.Wrap(domain.ErrTemplateCycle, "partial includes itself"), "chain", cycle)
	}

	source, inputs, err := c.read(entry)
	if err != nil {
		return nil, err
	}

	refs, err := references(entry, source)
	if err != nil {
		return nil, err
	}

	pass := &domain.Compilation{
		Entry:  domain.NewInternedString(entry),
		Name:   name,
		Source: source,
		Inputs: inputs,
	}

	next := append(slices.Clone(chain), entry)
	for _, ref := range refs {
		child, err := c.compile(ctx, resolve(entry, ref), ref, next)
		if err != nil {
			return nil, zerr.With(err, "included_from", entry)
		}
		pass.Children = append(pass.Children, child)
	}

	return pass, nil
}

// read returns the template body and the artifacts it was read from.
// The built-in template has no artifacts on disk.
func (c *Compiler) read(entry string) ([]byte, []domain.InternedString, error) {
	if entry == domain.DefaultTemplateName {
		return defaultTemplate, nil, nil
	}

	source, err := c.readFile(entry)
	if err != nil {
		return nil, nil, errors.Join(
			domain.ErrDependencyReadFailed,
			zerr.With(zerr.Wrap(err, "failed to read template"), "path", entry),
		)
	}

	return source, []domain.InternedString{domain.NewInternedString(entry)}, nil
}

// resolve maps a partial reference to a path relative to the including template.
func resolve(entry, ref string) string {
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	if entry == domain.DefaultTemplateName {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(entry), filepath.FromSlash(ref))
}

// references returns the partials named by {{template}} actions that are not defined inline,
// in order of first appearance.
func references(entry string, source []byte) ([]string, error) {
	tree := parse.New(entry)
	tree.Mode = parse.ParseComments | parse.SkipFuncCheck

	trees := make(map[string]*parse.Tree)
	if _, err := tree.Parse(string(source), "", "", trees); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrTemplateParseFailed, err.Error()), "path", entry)
	}

	// Inline definitions are visited after the main body in a stable order.
	names := make([]string, 0, len(trees))
	for name := range trees {
		if name != entry {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var refs []string
	seen := make(map[string]struct{})
	collect := func(node parse.Node) {
		walk(node, func(name string) {
			if _, defined := trees[name]; defined {
				return
			}
			if _, ok := seen[name]; ok {
				return
			}
			seen[name] = struct{}{}
			refs = append(refs, name)
		})
	}

	if main := trees[entry]; main != nil && main.Root != nil {
		collect(main.Root)
	}
	for _, name := range names {
		if t := trees[name]; t.Root != nil {
			collect(t.Root)
		}
	}

	return refs, nil
}

// walk calls visit with the name of every {{template}} action below node.
func walk(node parse.Node, visit func(string)) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walk(child, visit)
		}
	case *parse.TemplateNode:
		visit(n.Name)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, visit)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, visit)
	}
}

func walkBranch(n *parse.BranchNode, visit func(string)) {
	walk(n.List, visit)
	if n.ElseList != nil {
		walk(n.ElseList, visit)
	}
}
