// Package alchemy is the top-level entry point for the semantic-analysis
// front-end: it takes a set of already-parsed SourceFiles and drives them
// through the Gather, Base, and Member phases, producing a single
// deduplicated Table of resolved type descriptors plus the diagnostics
// collected along the way.
package alchemy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/pipeline"
	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/typetable"
)

// Analyzer owns a Table and drives SourceFiles through the pipeline. A
// single Analyzer can be reused across multiple Analyze calls: the Table
// accumulates types across calls, the same way an incremental build adds
// newly-changed files to an existing symbol universe.
type Analyzer struct {
	table  *typetable.Table
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostic-level tracing of the
// pipeline run. A nil logger (the default) disables this tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithTable seeds the Analyzer with an existing Table instead of a fresh
// one, so callers can resolve a new batch of files against types already
// registered from a previous run.
func WithTable(table *typetable.Table) Option {
	return func(a *Analyzer) {
		a.table = table
	}
}

// New creates an Analyzer. Without WithTable, it starts from a fresh Table
// pre-populated with the built-in types.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.table == nil {
		a.table = typetable.New()
	}
	return a
}

// Table returns the Table this Analyzer resolves types into.
func (a *Analyzer) Table() *typetable.Table {
	return a.table
}

// Result is the outcome of a single Analyze call: the (possibly shared)
// Table the files were resolved into, plus every diagnostic raised by any
// of the files analyzed in that call.
type Result struct {
	Table       *typetable.Table
	Diagnostics []*diagnostics.Diagnostic
}

// HasErrors reports whether any file produced a diagnostic.
func (r *Result) HasErrors() bool {
	return len(r.Diagnostics) > 0
}

// Analyze runs Gather, Base, and Member over files and returns the combined
// diagnostics from every file's sink. Files may span multiple namespaces
// and reference each other's declarations freely: the barrier between
// phases (pipeline.JobRunner) is what makes that safe — no file's Base
// phase starts until every file has finished Gather, and likewise for
// Member after Base.
func (a *Analyzer) Analyze(ctx context.Context, files []*sourcefile.SourceFile) (*Result, error) {
	if a.logger != nil {
		a.logger.InfoContext(ctx, "analyzing source files", slog.Int("files", len(files)))
	}

	runner := pipeline.NewJobRunner(a.table)
	if err := runner.Run(ctx, files); err != nil {
		return nil, fmt.Errorf("pipeline run: %w", err)
	}

	var diags []*diagnostics.Diagnostic
	for _, f := range files {
		diags = append(diags, f.Sink().Diagnostics()...)
	}

	if a.logger != nil {
		a.logger.InfoContext(ctx, "analysis complete", slog.Int("types", len(a.table.GetValues())), slog.Int("diagnostics", len(diags)))
	}

	return &Result{Table: a.table, Diagnostics: diags}, nil
}
