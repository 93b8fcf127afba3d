// Package sourcefile owns the per-file state each job phase reads and
// writes: the already-parsed syntax tree, a scratch arena, a diagnostics
// sink, and the derived fields GatherJob/BaseJob/MemberJob fill in as they
// run (spec §3). Exactly one goroutine at a time touches a given
// SourceFile; the pipeline's phase barriers (package pipeline) are what
// make that true, not anything in this package.
package sourcefile

import (
	"github.com/alchemy-lang/semantic/arena"
	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/typeinfo"
)

// SourceFile is one compilation unit: a path, its parsed tree, and the
// results GatherJob/BaseJob/MemberJob accumulate on it.
type SourceFile struct {
	path string
	tree *syntax.Tree

	arena *arena.Arena
	sink  *diagnostics.Sink

	namespaceName   string
	usingDirectives []string
	declaredTypes   []*typeinfo.TypeInfo
}

// New creates a SourceFile wrapping an already-parsed tree. scratchHint
// sizes the file's Arena.
func New(path string, tree *syntax.Tree, scratchHint int) *SourceFile {
	return &SourceFile{
		path:  path,
		tree:  tree,
		arena: arena.New(scratchHint),
		sink:  diagnostics.NewSink(path),
	}
}

// Path returns the file's path, satisfying typeinfo.DeclaringFile.
func (f *SourceFile) Path() string { return f.path }

// Tree returns the file's parsed syntax tree.
func (f *SourceFile) Tree() *syntax.Tree { return f.tree }

// Arena returns the file's scratch allocator.
func (f *SourceFile) Arena() *arena.Arena { return f.arena }

// Sink returns the file's diagnostics sink.
func (f *SourceFile) Sink() *diagnostics.Sink { return f.sink }

// Namespace returns the namespace GatherJob determined for this file:
// naming.GlobalNamespace if none was declared, or the empty string before
// GatherJob has run.
func (f *SourceFile) Namespace() string { return f.namespaceName }

// SetNamespace records the file's resolved namespace. Called by GatherJob,
// which first sets naming.GlobalNamespace and then the declared namespace,
// if any.
func (f *SourceFile) SetNamespace(ns string) { f.namespaceName = ns }

// Usings returns the file's using directives, in source order.
func (f *SourceFile) Usings() []string { return f.usingDirectives }

// AddUsing appends one using directive. Called by GatherJob in source
// order; duplicate detection happens at the call site so this stays a
// plain append.
func (f *SourceFile) AddUsing(name string) {
	f.usingDirectives = append(f.usingDirectives, name)
}

// DeclaredTypes returns every top-level TypeInfo GatherJob created for this
// file, in source order.
func (f *SourceFile) DeclaredTypes() []*typeinfo.TypeInfo { return f.declaredTypes }

// AddDeclaredType records one TypeInfo as declared by this file. Called by
// GatherJob as it walks the file's top-level declarations.
func (f *SourceFile) AddDeclaredType(ti *typeinfo.TypeInfo) {
	f.declaredTypes = append(f.declaredTypes, ti)
}
