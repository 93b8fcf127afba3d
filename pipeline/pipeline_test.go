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

func identTypeSyntax(name string) syntax.TypeSyntax {
	return &syntax.IdentifierNameSyntax{Name: name}
}

func predefinedTypeSyntax(kw token.Kind) syntax.TypeSyntax {
	return &syntax.PredefinedTypeSyntax{Keyword: kw}
}

// newFile builds a SourceFile with the given top-level declarations, under
// an optional namespace and using list.
func newFile(path, namespace string, usings []string, decls []*syntax.TypeDeclSyntax) *sourcefile.SourceFile {
	tree := &syntax.Tree{}
	if namespace != "" {
		tree.Members = append(tree.Members, &syntax.NamespaceSyntax{Name: namespace})
	}
	for _, u := range usings {
		tree.Members = append(tree.Members, &syntax.UsingSyntax{Name: u})
	}
	for _, d := range decls {
		tree.Members = append(tree.Members, d)
	}
	return sourcefile.New(path, tree, 256)
}

func TestJobRunner_GatherBaseMember_SimpleHierarchy(t *testing.T) {
	animalDecl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Animal",
		Fields: []*syntax.FieldSyntax{
			{Type: predefinedTypeSyntax(token.IntKeyword), Names: []string{"age"}},
		},
	}
	dogDecl := &syntax.TypeDeclSyntax{
		Kind:     syntax.ClassDecl,
		Name:     "Dog",
		BaseList: []syntax.TypeSyntax{identTypeSyntax("Animal")},
		Methods: []*syntax.MethodSyntax{
			{Name: "Bark", ReturnType: predefinedTypeSyntax(token.VoidKeyword)},
		},
	}

	file := newFile("animals.alc", "Zoo", nil, []*syntax.TypeDeclSyntax{animalDecl, dogDecl})

	tbl := typetable.New()
	runner := NewJobRunner(tbl)
	if err := runner.Run(context.Background(), []*sourcefile.SourceFile{file}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if file.Sink().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", file.Sink().Diagnostics())
	}

	dog, ok := tbl.TryResolve("Zoo::Dog")
	if !ok {
		t.Fatal("Zoo::Dog not registered")
	}
	animal, ok := tbl.TryResolve("Zoo::Animal")
	if !ok {
		t.Fatal("Zoo::Animal not registered")
	}
	if dog.GetBaseClass() != animal {
		t.Fatalf("Dog.GetBaseClass() = %v, want %v", dog.GetBaseClass(), animal)
	}

	fields := dog.GatherFieldInfos()
	if len(fields) != 1 || fields[0].Name != "age" {
		t.Fatalf("Dog.GatherFieldInfos() = %v, want [age] inherited from Animal", fields)
	}

	if len(dog.Methods) != 1 || dog.Methods[0].Name != "Bark" {
		t.Fatalf("Dog.Methods = %v, want [Bark]", dog.Methods)
	}
}

func TestJobRunner_DetectsClassCycle(t *testing.T) {
	aDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "A", BaseList: []syntax.TypeSyntax{identTypeSyntax("B")}}
	bDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "B", BaseList: []syntax.TypeSyntax{identTypeSyntax("A")}}

	file := newFile("cycle.alc", "", nil, []*syntax.TypeDeclSyntax{aDecl, bDecl})
	tbl := typetable.New()
	runner := NewJobRunner(tbl)
	if err := runner.Run(context.Background(), []*sourcefile.SourceFile{file}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, d := range file.Sink().Diagnostics() {
		if d.Code == "ERR_CycleDetectedInClassHierarchy" {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want ERR_CycleDetectedInClassHierarchy", file.Sink().Diagnostics())
	}
}

func TestJobRunner_StructCannotInheritClass(t *testing.T) {
	baseDecl := &syntax.TypeDeclSyntax{Kind: syntax.ClassDecl, Name: "Base"}
	structDecl := &syntax.TypeDeclSyntax{Kind: syntax.StructDecl, Name: "Point", BaseList: []syntax.TypeSyntax{identTypeSyntax("Base")}}

	file := newFile("point.alc", "", nil, []*syntax.TypeDeclSyntax{baseDecl, structDecl})
	tbl := typetable.New()
	runner := NewJobRunner(tbl)
	if err := runner.Run(context.Background(), []*sourcefile.SourceFile{file}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	found := false
	for _, d := range file.Sink().Diagnostics() {
		if d.Code == "ERR_StructsCanOnlyInheritInterfaces" {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want ERR_StructsCanOnlyInheritInterfaces", file.Sink().Diagnostics())
	}
}

func TestJobRunner_GenericTypeInstantiatesAcrossFiles(t *testing.T) {
	boxDecl := &syntax.TypeDeclSyntax{
		Kind:       syntax.ClassDecl,
		Name:       "Box",
		TypeParams: []*syntax.TypeParamSyntax{{Name: "T"}},
		Fields: []*syntax.FieldSyntax{
			{Type: identTypeSyntax("T"), Names: []string{"value"}},
		},
	}
	boxFile := newFile("box.alc", "Containers", nil, []*syntax.TypeDeclSyntax{boxDecl})

	useDecl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Holder",
		Fields: []*syntax.FieldSyntax{
			{
				Type: &syntax.GenericNameSyntax{
					Name: "Box",
					Args: []syntax.TypeSyntax{predefinedTypeSyntax(token.IntKeyword)},
				},
				Names: []string{"boxed"},
			},
		},
	}
	useFile := newFile("holder.alc", "App", []string{"Containers"}, []*syntax.TypeDeclSyntax{useDecl})

	tbl := typetable.New()
	runner := NewJobRunner(tbl)
	files := []*sourcefile.SourceFile{boxFile, useFile}
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
	if len(holder.Fields) != 1 {
		t.Fatalf("Holder.Fields = %v, want one field", holder.Fields)
	}
	boxed := holder.Fields[0].Type.Type
	if boxed.Class != typeinfo.ClassClass || !boxed.Flags.Has(typeinfo.InstantiatedGeneric) {
		t.Fatalf("boxed field type = %v, want an instantiated Box<Int>", boxed)
	}
	if len(boxed.Fields) != 1 || boxed.Fields[0].Type.Type != tbl.BuiltIns[typeinfo.Int] {
		t.Fatalf("Box<Int>.Fields = %v, want [value: Int]", boxed.Fields)
	}
}
