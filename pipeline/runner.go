package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/typetable"
)

// JobRunner drives the three-phase pipeline over a fixed set of files,
// fanning out one goroutine per file within each phase and waiting for the
// whole phase to finish before starting the next — the same
// errgroup.Group fork-join shape scanner.Scanner uses to parse a package's
// files concurrently, generalized to three sequential fan-outs instead of
// one (spec §5).
type JobRunner struct {
	Table *typetable.Table
}

// NewJobRunner creates a JobRunner backed by table.
func NewJobRunner(table *typetable.Table) *JobRunner {
	return &JobRunner{Table: table}
}

// Run executes Gather, then Base, then Member over files, in that order,
// with a full barrier between each phase. It returns the first error
// returned by any phase goroutine (today, none do — job phases report
// diagnostics instead of returning errors — but the errgroup plumbing
// stays in place so a future phase that legitimately needs to fail the
// whole run, e.g. on I/O, has somewhere to put it).
func (r *JobRunner) Run(ctx context.Context, files []*sourcefile.SourceFile) error {
	gather := &GatherJob{Table: r.Table}
	if err := runPhase(ctx, files, gather.Run); err != nil {
		return err
	}

	base := &BaseJob{Table: r.Table}
	if err := runPhase(ctx, files, base.Run); err != nil {
		return err
	}
	detectCycles(r.Table.GetValues())

	member := &MemberJob{Table: r.Table}
	if err := runPhase(ctx, files, member.Run); err != nil {
		return err
	}

	return nil
}

// runPhase fans work out across files and waits for every goroutine to
// finish before returning, the barrier between pipeline phases.
func runPhase(ctx context.Context, files []*sourcefile.SourceFile, work func(*sourcefile.SourceFile)) error {
	g, _ := errgroup.WithContext(ctx)
	for _, f := range files {
		file := f
		g.Go(func() error {
			work(file)
			return nil
		})
	}
	return g.Wait()
}
