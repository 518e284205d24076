// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package hclmodel

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/biogrid/internal/ctxlog"
	"github.com/specialistvlad/biogrid/internal/dag"
	"github.com/specialistvlad/biogrid/internal/decl"
	"github.com/specialistvlad/biogrid/internal/fsutil"
	"github.com/specialistvlad/biogrid/internal/model"
	"github.com/specialistvlad/biogrid/internal/reactions"
)

// Set holds the models loaded together, by name.
type Set struct {
	declared []string
	models   map[string]*model.Container
}

// Names returns the model names in declaration order.
func (s *Set) Names() []string { return slices.Clone(s.declared) }

// Get returns the model called name.
func (s *Set) Get(name string) (*model.Container, error) {
	c, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("no model named %q; available: %v", name, s.declared)
	}
	return c, nil
}

// Default returns the last declared model, or nil for an empty set.
func (s *Set) Default() *model.Container {
	if len(s.declared) == 0 {
		return nil
	}
	return s.models[s.declared[len(s.declared)-1]]
}

// Loader reads HCL model files.
type Loader struct {
	templates *reactions.Registry
}

// NewLoader creates a loader resolving use blocks against templates. A nil
// registry means the built-in templates.
func NewLoader(templates *reactions.Registry) *Loader {
	if templates == nil {
		templates = reactions.Default()
	}
	return &Loader{templates: templates}
}

// declaration is a model block waiting to be assembled.
type declaration struct {
	name  string
	block *hcl.Block
	deps  []string
}

// Load parses every .hcl file found under paths and assembles the declared
// models.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL model loader started.", "path_count", len(paths))

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range found {
			if !slices.Contains(files, f) {
				files = append(files, f)
			}
		}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var bodies []*hcl.File
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		bodies = append(bodies, f)
	}
	return l.assemble(ctx, bodies...)
}

// LoadSource parses a single in-memory HCL document.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*Set, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.assemble(ctx, f)
}

func (l *Loader) assemble(ctx context.Context, files ...*hcl.File) (*Set, error) {
	logger := ctxlog.FromContext(ctx)

	decls := make(map[string]*declaration)
	var declared []string
	for _, f := range files {
		content, diags := f.Body.Content(fileSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %w", diags)
		}
		for _, blk := range content.Blocks {
			name := blk.Labels[0]
			if prev, exists := decls[name]; exists {
				return nil, fmt.Errorf("duplicate model %q at %s, first declared at %s", name, blk.DefRange, prev.block.DefRange)
			}
			deps, diags := dependencies(blk.Body)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode model %q: %w", name, diags)
			}
			decls[name] = &declaration{name: name, block: blk, deps: deps}
			declared = append(declared, name)
		}
	}

	order, err := buildOrder(declared, decls)
	if err != nil {
		return nil, err
	}
	logger.Debug("Model dependency order resolved.", "order", order)

	t := &translator{templates: l.templates, built: make(map[string]*model.Container)}
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := decls[name]
		m, diags := t.model(d.block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to translate model %q: %w", name, diags)
		}
		c, err := decl.Assemble(ctx, m)
		if err != nil {
			return nil, err
		}
		t.built[name] = c
	}

	logger.Info("Models loaded.", "count", len(order))
	return &Set{declared: declared, models: t.built}, nil
}

// buildOrder sorts models so that every base precedes the models extending
// it.
func buildOrder(declared []string, decls map[string]*declaration) ([]string, error) {
	g := dag.New()
	for _, name := range declared {
		g.AddNode(name)
	}
	for _, name := range declared {
		for _, dep := range decls[name].deps {
			if _, ok := decls[dep]; !ok {
				return nil, fmt.Errorf("model %q extends unknown model %q", name, dep)
			}
			if dep == name {
				return nil, fmt.Errorf("model %q extends itself", name)
			}
			if err := g.AddEdge(dep, name); err != nil {
				return nil, err
			}
		}
	}
	order, err := g.TopologicalSort()
	if err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return nil, fmt.Errorf("models extend each other: %w", err)
		}
		return nil, err
	}
	return order, nil
}
