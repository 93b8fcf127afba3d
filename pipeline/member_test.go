package pipeline

import (
	"context"
	"testing"

	"github.com/alchemy-lang/semantic/diagnostics"
	"github.com/alchemy-lang/semantic/sourcefile"
	"github.com/alchemy-lang/semantic/syntax"
	"github.com/alchemy-lang/semantic/token"
	"github.com/alchemy-lang/semantic/typetable"
)

func modifier(kind token.Kind) syntax.ModifierToken {
	return syntax.ModifierToken{Kind: kind}
}

func runSingleDecl(t *testing.T, decl *syntax.TypeDeclSyntax) *sourcefile.SourceFile {
	t.Helper()
	file := newFile("member.alc", "App", nil, []*syntax.TypeDeclSyntax{decl})
	runner := NewJobRunner(typetable.New())
	if err := runner.Run(context.Background(), []*sourcefile.SourceFile{file}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return file
}

func hasDiagnostic(f *sourcefile.SourceFile, code diagnostics.Code) bool {
	for _, d := range f.Sink().Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestDefaultParameterOverloads_SynthesizesShrinkingSlots(t *testing.T) {
	// void Greet(string name, int times = 1, bool loud = false)
	// n=3, k=2 trailing defaults -> 3 total MethodInfo slots: counts 3, 2, 1.
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Greeter",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "Greet",
				ReturnType: predefinedTypeSyntax(token.VoidKeyword),
				Parameters: []*syntax.ParameterSyntax{
					{Name: "name", Type: predefinedTypeSyntax(token.StringKeyword)},
					{Name: "times", Type: predefinedTypeSyntax(token.IntKeyword), HasDefault: true},
					{Name: "loud", Type: predefinedTypeSyntax(token.BoolKeyword), HasDefault: true},
				},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if file.Sink().HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", file.Sink().Diagnostics())
	}

	greeter := file.DeclaredTypes()[0]
	if len(greeter.Methods) != 3 {
		t.Fatalf("Methods = %d entries, want 3 (n=3, k=2 defaults -> k+1 slots)", len(greeter.Methods))
	}

	wantCounts := []int{3, 2, 1}
	wantIsOverload := []bool{false, true, true}
	for i, m := range greeter.Methods {
		if len(m.Parameters) != wantCounts[i] {
			t.Fatalf("Methods[%d].Parameters = %d, want %d", i, len(m.Parameters), wantCounts[i])
		}
		if m.IsDefaultParameterOverload != wantIsOverload[i] {
			t.Fatalf("Methods[%d].IsDefaultParameterOverload = %v, want %v", i, m.IsDefaultParameterOverload, wantIsOverload[i])
		}
		if m.Name != "Greet" {
			t.Fatalf("Methods[%d].Name = %q, want Greet", i, m.Name)
		}
	}
}

func TestDefaultParameterOverloads_NoDefaultsProducesNoOverloads(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Calculator",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "Add",
				ReturnType: predefinedTypeSyntax(token.IntKeyword),
				Parameters: []*syntax.ParameterSyntax{
					{Name: "a", Type: predefinedTypeSyntax(token.IntKeyword)},
					{Name: "b", Type: predefinedTypeSyntax(token.IntKeyword)},
				},
			},
		},
	}

	file := runSingleDecl(t, decl)
	calc := file.DeclaredTypes()[0]
	if len(calc.Methods) != 1 {
		t.Fatalf("Methods = %d entries, want 1 (no defaults -> no overloads)", len(calc.Methods))
	}
	if calc.Methods[0].IsDefaultParameterOverload {
		t.Fatal("the sole slot must not be marked as a default-parameter overload")
	}
}

func TestResolveParameters_OptionalBeforeRequiredIsAnError(t *testing.T) {
	// void Bad(int a = 1, int b) — b is required but follows a default.
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Bad",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "M",
				ReturnType: predefinedTypeSyntax(token.VoidKeyword),
				Parameters: []*syntax.ParameterSyntax{
					{Name: "a", Type: predefinedTypeSyntax(token.IntKeyword), HasDefault: true},
					{Name: "b", Type: predefinedTypeSyntax(token.IntKeyword)},
				},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrOptionalParameterOrder) {
		t.Fatalf("diagnostics = %v, want ERR_OptionalParameterOrder", file.Sink().Diagnostics())
	}

	bad := file.DeclaredTypes()[0]
	if len(bad.Methods) != 0 {
		t.Fatalf("Methods = %v, want none synthesized for a malformed parameter list", bad.Methods)
	}
}

func TestResolveParameters_DuplicateNameIsAnError(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Bad",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "M",
				ReturnType: predefinedTypeSyntax(token.VoidKeyword),
				Parameters: []*syntax.ParameterSyntax{
					{Name: "a", Type: predefinedTypeSyntax(token.IntKeyword)},
					{Name: "a", Type: predefinedTypeSyntax(token.BoolKeyword)},
				},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrDuplicateParameterName) {
		t.Fatalf("diagnostics = %v, want ERR_DuplicateParameterName", file.Sink().Diagnostics())
	}
}

func TestValidateFieldModifiers_StaticConstIsAnError(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Config",
		Fields: []*syntax.FieldSyntax{
			{
				Type:      predefinedTypeSyntax(token.IntKeyword),
				Names:     []string{"Limit"},
				Modifiers: []syntax.ModifierToken{modifier(token.StaticKeyword), modifier(token.ConstKeyword)},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrStaticOrConst) {
		t.Fatalf("diagnostics = %v, want ERR_StaticOrConst", file.Sink().Diagnostics())
	}
	if len(file.DeclaredTypes()[0].Fields) != 0 {
		t.Fatal("a field rejected for conflicting modifiers must not be recorded")
	}
}

func TestValidateFieldModifiers_SealedOnFieldIsAnError(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Config",
		Fields: []*syntax.FieldSyntax{
			{
				Type:      predefinedTypeSyntax(token.IntKeyword),
				Names:     []string{"Limit"},
				Modifiers: []syntax.ModifierToken{modifier(token.SealedKeyword)},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrInvalidModifierForFieldDeclaration) {
		t.Fatalf("diagnostics = %v, want ERR_InvalidModifierForFieldDeclaration", file.Sink().Diagnostics())
	}
}

func TestValidateMethodModifiers_OverrideSealedIsAnError(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Shape",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "Area",
				ReturnType: predefinedTypeSyntax(token.FloatKeyword),
				Modifiers:  []syntax.ModifierToken{modifier(token.OverrideKeyword), modifier(token.SealedKeyword)},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrOverrideOrSealed) {
		t.Fatalf("diagnostics = %v, want ERR_OverrideOrSealed", file.Sink().Diagnostics())
	}
}

func TestValidateParameterModifiers_RefOutIsAnError(t *testing.T) {
	decl := &syntax.TypeDeclSyntax{
		Kind: syntax.ClassDecl,
		Name: "Box",
		Methods: []*syntax.MethodSyntax{
			{
				Name:       "Swap",
				ReturnType: predefinedTypeSyntax(token.VoidKeyword),
				Parameters: []*syntax.ParameterSyntax{
					{
						Name:      "v",
						Type:      predefinedTypeSyntax(token.IntKeyword),
						Modifiers: []syntax.ModifierToken{modifier(token.RefKeyword), modifier(token.OutKeyword)},
					},
				},
			},
		},
	}

	file := runSingleDecl(t, decl)
	if !hasDiagnostic(file, diagnostics.ErrRefOrOutOrReadonly) {
		t.Fatalf("diagnostics = %v, want ERR_RefOrOutOrReadonly", file.Sink().Diagnostics())
	}
}
