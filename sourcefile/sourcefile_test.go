package sourcefile

import (
	"testing"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/typeinfo"
)

func TestSourceFile_AccumulatesDerivedFields(t *testing.T) {
	tree := &syntax.Tree{}
	f := New("widgets/button.alc", tree, 64)

	if f.Path() != "widgets/button.alc" {
		t.Fatalf("Path() = %q", f.Path())
	}
	if f.Tree() != tree {
		t.Fatal("Tree() did not return the tree passed to New")
	}

	f.SetNamespace("Widgets")
	f.AddUsing("Core")
	f.AddUsing("Core.Layout")
	ti := &typeinfo.TypeInfo{FullyQualifiedName: "Widgets::Button"}
	f.AddDeclaredType(ti)

	if f.Namespace() != "Widgets" {
		t.Fatalf("Namespace() = %q, want Widgets", f.Namespace())
	}
	if got := f.Usings(); len(got) != 2 || got[0] != "Core" || got[1] != "Core.Layout" {
		t.Fatalf("Usings() = %v", got)
	}
	if got := f.DeclaredTypes(); len(got) != 1 || got[0] != ti {
		t.Fatalf("DeclaredTypes() = %v", got)
	}
}

func TestSourceFile_SatisfiesDeclaringFile(t *testing.T) {
	var _ typeinfo.DeclaringFile = New("a.alc", &syntax.Tree{}, 0)
}

func TestSourceFile_ArenaAndSinkAreOwned(t *testing.T) {
	f := New("a.alc", &syntax.Tree{}, 16)
	m := f.Arena().Mark()
	f.Arena().AppendString("scratch")
	f.Arena().Reset(m)

	f.Sink().Report(diagnostics.ErrNotImplemented, diagnostics.Span{Line: 1, Column: 1}, "boom")
	if !f.Sink().HasErrors() {
		t.Fatal("Sink() did not retain reported diagnostics")
	}
}
