// Package syntax defines the minimal shape of an already-parsed syntax tree
// that the semantic layer consumes. Lexing and parsing are out of scope
// (spec §1, §6) — SyntaxTree and its node types stand in for whatever the
// upstream front-end actually produces; job phases read them through the
// small surface declared here.
package syntax

import "github.com/alchemy-lang/semantic/token"

// Span locates a node in its originating file. 1-based line/column, matching
// the diagnostics package.
type Span struct {
	Line   int
	Column int
	Length int
}

// ModifierToken is one modifier token attached to a declaration or member,
// carrying enough position information to anchor a diagnostic.
type ModifierToken struct {
	Kind token.Kind
	Span Span
}

// Tree is the parsed representation of one source file: a single ordered
// list of top-level members, exactly as the upstream front-end's flat
// member array presents them. Namespace declarations, using directives,
// and type declarations are free to repeat or interleave at this level —
// GatherJob is what rejects the combinations spec §4.5 disallows (a
// repeated namespace, a using after a declaration, and so on). Order is
// source order — job phases depend on that for deterministic diagnostics
// (spec §5).
type Tree struct {
	Members []TopLevelMember
}

// TopLevelMember is implemented by every node kind that can appear
// directly in a Tree's member list: NamespaceSyntax, UsingSyntax, and
// TypeDeclSyntax.
type TopLevelMember interface {
	topLevelMemberSpan() Span
}

// NamespaceSyntax is a `namespace N.M;` declaration.
type NamespaceSyntax struct {
	Name string
	Span Span
}

func (n *NamespaceSyntax) topLevelMemberSpan() Span { return n.Span }

// UsingSyntax is a `using N.M;` directive.
type UsingSyntax struct {
	Name string
	Span Span
}

func (n *UsingSyntax) topLevelMemberSpan() Span { return n.Span }

// DeclKind distinguishes the five declaration shapes GatherJob recognizes,
// plus Widget (a declarative UI component, see SPEC_FULL.md).
type DeclKind int

const (
	ClassDecl DeclKind = iota
	StructDecl
	InterfaceDecl
	EnumDecl
	DelegateDecl
	WidgetDecl
)

// TypeParamSyntax is one entry in a generic declaration's `<T, U>` list.
type TypeParamSyntax struct {
	Name        string
	Constraints []TypeSyntax
	Span        Span
}

// TypeDeclSyntax is one top-level (or, eventually, nested) type declaration.
type TypeDeclSyntax struct {
	Kind       DeclKind
	Name       string
	Modifiers  []ModifierToken
	TypeParams []*TypeParamSyntax
	BaseList   []TypeSyntax
	Fields     []*FieldSyntax
	Methods    []*MethodSyntax
	Properties []*PropertySyntax
	Indexers   []*IndexerSyntax
	Ctors      []*ConstructorSyntax
	Span       Span
}

func (n *TypeDeclSyntax) topLevelMemberSpan() Span { return n.Span }

// FieldSyntax is one `<modifiers> T name = expr;` field declaration. A
// single statement can declare several variables sharing one type and
// modifier set (`int a, b;`); Names holds all of them.
type FieldSyntax struct {
	Modifiers []ModifierToken
	Type      TypeSyntax
	Names     []string
	Span      Span
}

// ParameterSyntax is one method/constructor parameter.
type ParameterSyntax struct {
	Modifiers  []ModifierToken
	Type       TypeSyntax
	Name       string
	HasDefault bool
	Span       Span
}

// MethodSyntax is one method declaration.
type MethodSyntax struct {
	Modifiers  []ModifierToken
	ReturnType TypeSyntax
	Name       string
	Parameters []*ParameterSyntax
	Span       Span
}

// PropertySyntax is one property declaration; body resolution is deferred
// per spec §4.7, but the accessor shape is gathered (SPEC_FULL.md item 4).
type PropertySyntax struct {
	Modifiers []ModifierToken
	Type      TypeSyntax
	Name      string
	HasGetter bool
	HasSetter bool
	Span      Span
}

// IndexerSyntax is one indexer declaration (`this[T key] { get; set; }`).
type IndexerSyntax struct {
	Modifiers  []ModifierToken
	Type       TypeSyntax
	Parameters []*ParameterSyntax
	HasGetter  bool
	HasSetter  bool
	Span       Span
}

// ConstructorSyntax is one constructor declaration.
type ConstructorSyntax struct {
	Modifiers  []ModifierToken
	Parameters []*ParameterSyntax
	Span       Span
}

// TypeSyntax is the marker interface implemented by every type-reference
// node kind the resolver dispatches on (spec §4.4).
type TypeSyntax interface {
	syntaxSpan() Span
}

// PredefinedTypeSyntax names a built-in keyword type, e.g. `int`.
type PredefinedTypeSyntax struct {
	Keyword token.Kind
	Span    Span
}

func (n *PredefinedTypeSyntax) syntaxSpan() Span { return n.Span }

// IdentifierNameSyntax is a bare simple name, e.g. `Foo`.
type IdentifierNameSyntax struct {
	Name string
	Span Span
}

func (n *IdentifierNameSyntax) syntaxSpan() Span { return n.Span }

// GenericNameSyntax is a simple name applied to type arguments, e.g.
// `Box<int>`.
type GenericNameSyntax struct {
	Name     string
	Args     []TypeSyntax
	Span     Span
}

func (n *GenericNameSyntax) syntaxSpan() Span { return n.Span }

// NullableTypeSyntax is `T?`.
type NullableTypeSyntax struct {
	Element TypeSyntax
	Span    Span
}

func (n *NullableTypeSyntax) syntaxSpan() Span { return n.Span }

// RefTypeSyntax is `ref T`.
type RefTypeSyntax struct {
	Element TypeSyntax
	Span    Span
}

func (n *RefTypeSyntax) syntaxSpan() Span { return n.Span }

// TupleTypeSyntax is `(T, U)`. Reserved for future work (spec §4.4); the
// resolver reports ERR_NotImplemented for it.
type TupleTypeSyntax struct {
	Elements []TypeSyntax
	Span     Span
}

func (n *TupleTypeSyntax) syntaxSpan() Span { return n.Span }

// QualifiedNameSyntax is `N.M.Foo`. Reserved for future work.
type QualifiedNameSyntax struct {
	Parts []string
	Span  Span
}

func (n *QualifiedNameSyntax) syntaxSpan() Span { return n.Span }

// Span returns the source location of any TypeSyntax node.
func NodeSpan(t TypeSyntax) Span { return t.syntaxSpan() }
