package pipeline

import (
	"strings"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/typeinfo"
)

// detectCycles walks every class in the table and reports
// ERR_CycleDetectedInClassHierarchy once per distinct cycle found. A class
// can inherit from a type declared in a different file, so this only runs
// after every file's BaseJob has completed (spec §4.6).
func detectCycles(values []*typeinfo.TypeInfo) {
	visited := make(map[*typeinfo.TypeInfo]bool, len(values))
	reported := make(map[*typeinfo.TypeInfo]bool)

	for _, ti := range values {
		if ti.Class != typeinfo.ClassClass || visited[ti] {
			continue
		}
		found, path := ti.DetectClassCycle(visited)
		for _, node := range path {
			visited[node] = true
		}
		// A walk that stops on a node an earlier walk already covered is
		// not a new cycle: its path does not close on itself.
		if !found || len(path) == 0 || path[0] != path[len(path)-1] {
			continue
		}
		// Report once, anchored to the first node in the cycle's path
		// encountered in this pass, so a cycle spanning several files
		// produces exactly one diagnostic rather than one per member.
		head := path[0]
		if reported[head] {
			continue
		}
		reported[head] = true

		sink := sinkFor(head)
		if sink == nil {
			continue
		}
		sink.Report(diagnostics.ErrCycleDetectedInClassHierarchy, diagnostics.Span{}, describeCycle(path))
	}
}

func describeCycle(path []*typeinfo.TypeInfo) string {
	names := make([]string, len(path))
	for i, ti := range path {
		names[i] = ti.FullyQualifiedName
	}
	return strings.Join(names, " -> ")
}

// sinkFor recovers the diagnostics.Sink that owns ti's declaring file. The
// sourcefile package cannot be imported here without creating a cycle
// (sourcefile already imports typeinfo), so this goes through the
// sinkCarrier interface instead.
func sinkFor(ti *typeinfo.TypeInfo) *diagnostics.Sink {
	carrier, ok := ti.DeclaringFile.(sinkCarrier)
	if !ok {
		return nil
	}
	return carrier.Sink()
}

// sinkCarrier is the subset of *sourcefile.SourceFile this package needs to
// attach a cross-file diagnostic to the right sink.
type sinkCarrier interface {
	Sink() *diagnostics.Sink
}
