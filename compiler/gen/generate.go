package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/stamp/schema"
)

// Generator runs the per-definition pipeline: build the semantic
// model, plan every requested pattern, synthesize the fragments and
// assemble them into one generated file. Generation is all-or-nothing
// per definition; a definition either yields a complete file or an
// error and no output.
type Generator struct {
	config *Config
}

// NewGenerator builds a generator from the given options.
func NewGenerator(opts ...Option) (*Generator, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{config: c}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() *Config { return g.config }

// Result is the complete output for one definition.
type Result struct {
	// Type is the definition's name.
	Type string
	// Fragments holds the per-pattern fragments in requested order.
	Fragments []*Fragment
	// Source is the assembled, gofmt-clean file content.
	Source []byte
	// File is the output file name, relative to the target directory.
	File string
}

// Generate runs the pipeline for one definition. Validation and
// planning errors surface before any synthesis output exists, so a
// failed definition never produces a partial file.
func (g *Generator) Generate(def *schema.TypeDefinition) (*Result, error) {
	m, err := Build(def, g.config.Patterns)
	if err != nil {
		return nil, err
	}
	fragments := make([]*Fragment, 0, len(m.Requested))
	for _, id := range m.Requested {
		p, _ := LookupPattern(id)
		plan, err := p.module.plan(m)
		if err != nil {
			return nil, err
		}
		if len(plan.Blocks) == 0 {
			continue
		}
		frag, err := Synthesize(m, plan)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, frag)
	}
	src, err := Assemble(g.config.Package, g.config.Header, fragments)
	if err != nil {
		return nil, err
	}
	return &Result{
		Type:      def.Name,
		Fragments: fragments,
		Source:    src,
		File:      snake(def.Name) + "_stamp.go",
	}, nil
}

// GenerateBatch runs the pipeline for many definitions in parallel.
// Definitions are isolated: one failure is recorded in the report and
// does not abort its siblings. Results come back in input order.
func (g *Generator) GenerateBatch(ctx context.Context, defs []*schema.TypeDefinition) ([]*Result, *Report) {
	report := NewReport()
	results := make([]*Result, len(defs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.Workers)
	for i, def := range defs {
		i, def := i, def
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			res, err := g.Generate(def)
			if err != nil {
				report.Add(def.Name, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Only context cancellation propagates as a group error.
	if err := eg.Wait(); err != nil {
		report.Add("", err)
	}

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, report
}

// Write generates all definitions and writes the successful outputs
// under the configured target directory.
func (g *Generator) Write(ctx context.Context, defs []*schema.TypeDefinition) (*Report, error) {
	if g.config.Target == "" {
		return nil, &ConfigError{Option: "Target", Message: "no target directory configured"}
	}
	results, report := g.GenerateBatch(ctx, defs)
	if len(results) == 0 {
		return report, nil
	}
	if err := os.MkdirAll(g.config.Target, 0o755); err != nil {
		return report, fmt.Errorf("create target directory: %w", err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	for _, r := range results {
		path := filepath.Join(g.config.Target, r.File)
		if err := os.WriteFile(path, r.Source, 0o644); err != nil {
			return report, fmt.Errorf("write %s: %w", path, err)
		}
	}
	return report, nil
}
