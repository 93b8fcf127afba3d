package alchemy

import (
	"context"
	"testing"

	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typetable"
)

func newFile(path, namespace string, decls []*syntax.TypeDeclSyntax) *sourcefile.SourceFile {
	tree := &syntax.Tree{}
	if namespace != "" {
		tree.Members = append(tree.Members, &syntax.NamespaceSyntax{Name: namespace})
	}
	for _, d := range decls {
		tree.Members = append(tree.Members, d)
	}
	return sourcefile.New(path, tree, 256)
}

func TestAnalyze_SimpleFile(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Greeter",
		Fields: []*syntax.FieldSyntax{
			{Type: &syntax.PredefinedTypeSyntax{Keyword: token.StringKeyword}, Names: []string{"Name"}},
		},
	}
	file := newFile("greeter.alc", "Hello", []*syntax.TypeDeclSyntax{decl})

	a := New()
	result, err := a.Analyze(context.Background(), []*sourcefile.SourceFile{file})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}

	if _, ok := result.Table.TryResolve("Hello::Greeter"); !ok {
		t.Fatal("Hello::Greeter not registered in the result table")
	}
}

func TestAnalyze_ReusesSharedTableAcrossCalls(t *testing.T) {
	tbl := typetable.New()
	a := New(WithTable(tbl))

	firstDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "First"}
	firstFile := newFile("first.alc", "App", []*syntax.TypeDeclSyntax{firstDecl})
	if _, err := a.Analyze(context.Background(), []*sourcefile.SourceFile{firstFile}); err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}

	secondDecl := &syntax.TypeDeclSyntax{
		Kind:     syntax.ClassDecl,
		Name:     "Second",
		BaseList: []syntax.TypeSyntax{&syntax.IdentifierNameSyntax{Name: "First"}},
	}
	secondFile := newFile("second.alc", "App", []*syntax.TypeDeclSyntax{secondDecl})
	result, err := a.Analyze(context.Background(), []*sourcefile.SourceFile{secondFile})
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}
	if result.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if result.Table != tbl {
		t.Fatal("Analyze() should return the shared Table passed via WithTable")
	}

	second, ok := tbl.TryResolve("App::Second")
	if !ok {
		t.Fatal("App::Second not registered")
	}
	first, ok := tbl.TryResolve("App::First")
	if !ok {
		t.Fatal("App::First not registered")
	}
	if second.GetBaseClass() != first {
		t.Fatalf("Second.GetBaseClass() = %v, want %v", second.GetBaseClass(), first)
	}
}

func TestAnalyze_ReportsDiagnosticsFromEveryFile(t *testing.T) {
	aDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "A", BaseList: []syntax.TypeSyntax{&syntax.IdentifierNameSyntax{Name: "B"}}}
	bDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "B", BaseList: []syntax.TypeSyntax{&syntax.IdentifierNameSyntax{Name: "A"}}}
	file := newFile("cycle.alc", "", []*syntax.TypeDeclSyntax{aDecl, bDecl})

	a := New()
	result, err := a.Analyze(context.Background(), []*sourcefile.SourceFile{file})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !result.HasErrors() {
		t.Fatal("want at least one diagnostic for the A/B cycle")
	}
}
