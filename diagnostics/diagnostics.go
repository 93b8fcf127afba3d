// Package diagnostics carries the semantic-analysis error taxonomy (spec §7).
// Diagnostics are produced, never thrown: every job phase appends to a
// per-file sink and keeps validating so a single run surfaces as many
// problems as possible.
package diagnostics

import "fmt"

// Code is one member of the closed error-code taxonomy in spec §7.
type Code string

const (
	// Ordering errors.
	ErrNamespaceMustComeBeforeUsingsAndDeclarations Code = "ERR_NamespaceMustComeBeforeUsingsAndDeclarations"
	ErrUsingsMustComeBeforeDeclarations              Code = "ERR_UsingsMustComeBeforeDeclarations"
	ErrOptionalParameterOrder                        Code = "ERR_OptionalParameterOrder"

	// Uniqueness errors.
	ErrMulitpleNamespaces           Code = "ERR_MulitpleNamespaces"
	ErrDuplicateUsingDirective      Code = "ERR_DuplicateUsingDirective"
	ErrDuplicateParameterName       Code = "ERR_DuplicateParameterName"
	ErrDuplicateIdentifierInScope   Code = "ERR_DuplicateIdentifierInScope"
	ErrBaseTypeAppearsMultipleTimes Code = "ERR_BaseTypeAppearsMultipleTimes"

	// Modifier errors.
	ErrMulitpleVisibiltyDeclarations Code = "ERR_MulitpleVisibiltyDeclarations"
	ErrMultipleModifiers             Code = "ERR_MultipleModifiers"
	ErrSealedOrAbstract              Code = "ERR_SealedOrAbstract"
	ErrStaticOrConst                 Code = "ERR_StaticOrConst"
	ErrReadonlyOrConst               Code = "ERR_ReadonlyOrConst"
	ErrOverrideOrSealed              Code = "ERR_OverrideOrSealed"
	ErrRefOrOutOrReadonly            Code = "ERR_RefOrOutOrReadonly"

	// Type errors.
	ErrUnresolvedType                          Code = "ERR_UnresolvedType"
	ErrAmbiguousTypeMatch                      Code = "ERR_AmbiguousTypeMatch"
	ErrTypeArgumentShouldNotBeAnExistingTypeName Code = "ERR_TypeArgumentShouldNotBeAnExistingTypeName"
	ErrTypeCannotBeProtected                   Code = "ERR_TypeCannotBeProtected"
	ErrTypeCannotBeRef                         Code = "ERR_TypeCannotBeRef"
	ErrNotImplemented                          Code = "ERR_NotImplemented"

	// Inheritance errors.
	ErrCycleDetectedInClassHierarchy                Code = "ERR_CycleDetectedInClassHierarchy"
	ErrCannotInheritRecursively                      Code = "ERR_CannotInheritRecursively"
	ErrCannotInheritASealedType                      Code = "ERR_CannotInheritASealedType"
	ErrStructsCanOnlyInheritInterfaces               Code = "ERR_StructsCanOnlyInheritInterfaces"
	ErrOnlyFirstBaseTypeCanBeClass                   Code = "ERR_OnlyFirstBaseTypeCanBeClass"
	ErrBaseTypeInNonZeroPositionMustBeAnInterface    Code = "ERR_BaseTypeInNonZeroPositionMustBeAnInterface"
	ErrBaseTypeCannotBeRef                           Code = "ERR_BaseTypeCannotBeRef"
	ErrBaseTypeCannotBeNullable                      Code = "ERR_BaseTypeCannotBeNullable"
	ErrBaseTypeCannotBeTuple                         Code = "ERR_BaseTypeCannotBeTuple"

	// Invalid-modifier-site errors.
	ErrInvalidModifierForFieldDeclaration     Code = "ERR_InvalidModifierForFieldDeclaration"
	ErrInvalidModifierForMethodDeclaration     Code = "ERR_InvalidModifierForMethodDeclaration"
	ErrInvalidModifierForParameterDeclaration  Code = "ERR_InvalidModifierForParameterDeclaration"
)

// Span locates a diagnostic in source text. Line and Column are 1-based, as
// the upstream lexer reports them.
type Span struct {
	Line   int
	Column int
	Length int
}

// Diagnostic is a single recoverable semantic-analysis error.
type Diagnostic struct {
	Code    Code
	File    string
	Span    Span
	Message string
}

// Error satisfies the error interface so a Diagnostic can be wrapped or
// logged like any other Go error, even though it is never returned as one
// from job phases (it is always appended to a Sink instead).
func (d *Diagnostic) Error() string {
	if d.Message == "" {
		return fmt.Sprintf("%s: %s:%d:%d", d.Code, d.File, d.Span.Line, d.Span.Column)
	}
	return fmt.Sprintf("%s: %s:%d:%d: %s", d.Code, d.File, d.Span.Line, d.Span.Column, d.Message)
}

// New builds a Diagnostic for file at span with the given code and message.
func New(code Code, file string, span Span, message string) *Diagnostic {
	return &Diagnostic{Code: code, File: file, Span: span, Message: message}
}

// Sink collects diagnostics for a single SourceFile. It is not safe for
// concurrent use by multiple goroutines — each worker in the pipeline owns
// exactly one file's Sink, matching the "within a file, source order"
// determinism guarantee in spec §5.
type Sink struct {
	file        string
	diagnostics []*Diagnostic
	suppressed  bool
}

// NewSink creates a Sink for the named file.
func NewSink(file string) *Sink {
	return &Sink{file: file}
}

// Suppress disables recording for the duration of f, used by BaseJob while
// validating generic-argument names against the table (spec §4.6 step 2).
func (s *Sink) Suppress(f func()) {
	prev := s.suppressed
	s.suppressed = true
	defer func() { s.suppressed = prev }()
	f()
}

// Suppressed reports whether the sink is currently in a suppressed scope.
func (s *Sink) Suppressed() bool {
	return s.suppressed
}

// Report appends a diagnostic unless the sink is currently suppressed.
func (s *Sink) Report(code Code, span Span, message string) {
	if s.suppressed {
		return
	}
	s.diagnostics = append(s.diagnostics, New(code, s.file, span, message))
}

// Diagnostics returns every diagnostic recorded so far, in report order.
func (s *Sink) Diagnostics() []*Diagnostic {
	return s.diagnostics
}

// HasErrors reports whether any diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	return len(s.diagnostics) > 0
}
