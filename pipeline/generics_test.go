package pipeline

import (
	"context"
	"testing"

	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typeinfo"
	"github.com/alchemy-lang/semantic/typetable"
)

// A generic type's own member signatures can reference another generic
// type applied to the declaration's own (still-open) type parameter, e.g.
// Container<U>'s "Wrapper<U> item" field. Instantiating Container<Int> must
// fully close that nested Wrapper<U> into Wrapper<Int>, not leave it half
// open (spec §4.3 step 6, recursiveResolveGenerics).
func TestMakeGenericType_ClosesNestedGenericFieldOnFullInstantiation(t *testing.T) {
	wrapperDecl := &syntax.TypeDeclSyntax{
		Kind:       syntax.ClassDecl,
		Name:       "Wrapper",
		TypeParams: []*syntax.TypeParamSyntax{{Name: "T"}},
		Fields: []*syntax.FieldSyntax{
			{Type: identTypeSyntax("T"), Names: []string{"value"}},
		},
	}
	containerDecl := &syntax.TypeDeclSyntax{
		Kind:       syntax.ClassDecl,
		Name:       "Container",
		TypeParams: []*syntax.TypeParamSyntax{{Name: "U"}},
		Fields: []*syntax.FieldSyntax{
			{
				Type:  &syntax.GenericNameSyntax{Name: "Wrapper", Args: []syntax.TypeSyntax{identTypeSyntax("U")}},
				Names: []string{"item"},
			},
		},
	}
	declsFile := newFile("nested.alc", "App", nil, []*syntax.TypeDeclSyntax{wrapperDecl, containerDecl})

	useDecl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Holder",
		Fields: []*syntax.FieldSyntax{
			{
				Type:  &syntax.GenericNameSyntax{Name: "Container", Args: []syntax.TypeSyntax{predefinedTypeSyntax(token.IntKeyword)}},
				Names: []string{"boxed"},
			},
		},
	}
	useFile := newFile("holder.alc", "App", nil, []*syntax.TypeDeclSyntax{useDecl})

	tbl := typetable.New()
	runner := NewJobRunner(tbl)
	files := []*sourcefile.SourceFile{declsFile, useFile}
	if err := runner.Run(context.Background(), files); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, f := range files {
		if f.Sink().HasErrors() {
			t.Fatalf("unexpected diagnostics in %s: %v", f.Path(), f.Sink().Diagnostics())
		}
	}

	holder, ok := tbl.TryResolve("App::Holder")
	if !ok {
		t.Fatal("App::Holder not registered")
	}
	container := holder.Fields[0].Type.Type
	if !container.Flags.Has(typeinfo.InstantiatedGeneric) || container.Flags.Has(typeinfo.IsGenericTypeDefinition) {
		t.Fatalf("Container<Int> flags = %v, want fully concrete", container.Flags)
	}

	wrapper := container.Fields[0].Type.Type
	if !wrapper.Flags.Has(typeinfo.InstantiatedGeneric) || wrapper.Flags.Has(typeinfo.IsGenericTypeDefinition) {
		t.Fatalf("Container<Int>.item's Wrapper<U> must close to Wrapper<Int>, got flags = %v", wrapper.Flags)
	}
	if wrapper.Fields[0].Type.Type != tbl.BuiltIns[typeinfo.Int] {
		t.Fatalf("Wrapper<Int>.value = %v, want Int", wrapper.Fields[0].Type.Type)
	}

	for _, ti := range tbl.GetConcreteTypes() {
		if ti == wrapper || ti == container {
			continue
		}
		if ti.Class == typeinfo.ClassClass && ti.TypeName == wrapper.TypeName {
			t.Fatalf("a half-open Wrapper<U> instantiation leaked into GetConcreteTypes: %s flags=%v", ti.FullyQualifiedName, ti.Flags)
		}
	}
}
