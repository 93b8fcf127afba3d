// Package typeinfo defines the central entity of the semantic layer — the
// resolved/unresolved type descriptor — and the member descriptors that
// hang off it (spec §3). TypeTable owns the directory of these; Resolver
// and the job phases populate and read them.
package typeinfo

import "fmt"

// Class is the declaration category a TypeInfo represents.
type Class int

const (
	ClassClass Class = iota
	ClassStruct
	ClassInterface
	ClassEnum
	ClassDelegate
	ClassWidget
	ClassGenericArgument
	ClassUnresolved
	ClassVoid
)

func (c Class) String() string {
	switch c {
	case ClassClass:
		return "Class"
	case ClassStruct:
		return "Struct"
	case ClassInterface:
		return "Interface"
	case ClassEnum:
		return "Enum"
	case ClassDelegate:
		return "Delegate"
	case ClassWidget:
		return "Widget"
	case ClassGenericArgument:
		return "GenericArgument"
	case ClassUnresolved:
		return "Unresolved"
	case ClassVoid:
		return "Void"
	default:
		return "Class(?)"
	}
}

// Flags is the TypeInfo-level attribute bitset (spec §3).
type Flags uint32

const (
	IsGenericArgumentDefinition Flags = 1 << iota
	IsGenericTypeDefinition
	IsNullable
	Sealed
	Abstract
	IsPrimitive
	InstantiatedGeneric
	RequiresInitConstructor
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Visibility is the declared accessibility of a type or member.
type Visibility int

const (
	Public Visibility = iota
	Private
	Internal
	Export
)

// BuiltInTypeName enumerates the closed set of predefined types (spec §4.8).
// InvalidBuiltIn is the sentinel for user-declared types.
type BuiltInTypeName int

const (
	InvalidBuiltIn BuiltInTypeName = iota
	Int
	Int2
	Int3
	Int4
	Uint
	Uint2
	Uint3
	Uint4
	Float
	Float2
	Float3
	Float4
	Bool
	Char
	Color
	Color32
	Color64
	Byte
	Sbyte
	Short
	Ushort
	Long
	Ulong
	Dynamic
	String
	Object
	Double
	Void
)

// IsPrimitiveBuiltIn reports whether b is one of the primitive built-ins
// (spec §4.8: Bool, Char, Int8..64, UInt8..64, Float, Double).
func IsPrimitiveBuiltIn(b BuiltInTypeName) bool {
	switch b {
	case Bool, Char, Byte, Sbyte, Short, Ushort, Int, Uint, Long, Ulong, Float, Double:
		return true
	default:
		return false
	}
}

// ResolvedFlags qualifies a ResolvedType beyond the TypeInfo it points at
// (spec §3).
type ResolvedFlags uint32

const (
	IsVoid ResolvedFlags = 1 << iota
	RFIsNullable
	IsArray
	IsEnum
	IsVector
	IsNullOrDefault
	IsMethodGroup
	IsVar
	IsRef
	IsTuple
	IsUnresolved
)

// ResolvedType is a (TypeInfo, flags) pair. Two ResolvedTypes are equal iff
// both components compare equal — Go's struct equality gives this for free
// since TypeInfo is always referenced by pointer.
type ResolvedType struct {
	Type  *TypeInfo
	Flags ResolvedFlags
}

// Unresolved is the sentinel ResolvedType returned when resolution fails;
// callers treat it as opaque and never cascade further errors from it
// (spec §7).
var Unresolved = ResolvedType{Flags: IsUnresolved}

// IsUnresolvedType reports whether r is the unresolved sentinel.
func (r ResolvedType) IsUnresolvedType() bool { return r.Flags.Has(IsUnresolved) }

func (f ResolvedFlags) Has(bit ResolvedFlags) bool { return f&bit != 0 }

// FieldModifier is one of the field modifier bits (spec §4.7).
type FieldModifier uint8

const (
	FieldReadonly FieldModifier = 1 << iota
	FieldStatic
	FieldConst
)

// FieldInfo describes one declared field.
type FieldInfo struct {
	Type          ResolvedType
	Name          string
	DeclaringType *TypeInfo
	Modifiers     FieldModifier
	Visibility    Visibility
}

// MethodModifier is one of the method modifier bits (spec §4.7).
type MethodModifier uint8

const (
	MethodOverride MethodModifier = 1 << iota
	MethodSealed
	MethodAbstract
	MethodVirtual
	MethodStatic
)

// ParameterModifier is one of the parameter modifier bits (spec §3, §4.7).
type ParameterModifier uint8

const (
	ParamRef ParameterModifier = 1 << iota
	ParamTemp
	ParamOut
	ParamReadonly
)

// ParameterInfo describes one method/constructor/indexer parameter.
type ParameterInfo struct {
	Type      ResolvedType
	Name      string
	Modifiers ParameterModifier
}

// MethodInfo describes one method declaration, or one synthesized
// default-parameter overload of it (spec §4.7, Glossary).
type MethodInfo struct {
	DeclaringType            *TypeInfo
	Name                     string
	ReturnType               ResolvedType
	Parameters               []*ParameterInfo
	Modifiers                MethodModifier
	Visibility               Visibility
	IsDefaultParameterOverload bool
}

// PropertyInfo describes one property declaration. Accessor presence is
// gathered even though full getter/setter body resolution is deferred
// (SPEC_FULL.md item 4).
type PropertyInfo struct {
	DeclaringType *TypeInfo
	Name          string
	Type          ResolvedType
	Visibility    Visibility
	HasGetter     bool
	HasSetter     bool
}

// IndexerInfo describes one indexer declaration.
type IndexerInfo struct {
	DeclaringType *TypeInfo
	Type          ResolvedType
	Parameters    []*ParameterInfo
	Visibility    Visibility
	HasGetter     bool
	HasSetter     bool
}

// ConstructorInfo describes one constructor declaration, fully resolved
// (SPEC_FULL.md item 5 — stricter than spec §4.7's minimum contract).
type ConstructorInfo struct {
	DeclaringType *TypeInfo
	Parameters    []*ParameterInfo
	Visibility    Visibility
}

// DeclaringFile is the subset of SourceFile a TypeInfo needs to back-
// reference (weak reference, spec §3). Defined here rather than imported
// from the sourcefile package to avoid a dependency cycle — sourcefile
// imports typeinfo (it stores *TypeInfo in DeclaredTypes), not vice versa.
type DeclaringFile interface {
	Path() string
}

// TypeInfo is the central entity: one resolved or unresolved type
// descriptor, whether a user declaration, a generic-argument placeholder,
// or a closed generic instantiation (spec §3).
type TypeInfo struct {
	Class           Class
	Flags           Flags
	Visibility      Visibility
	BuiltIn         BuiltInTypeName
	FullyQualifiedName string
	TypeName        string // simple name: the declared name, or for a closed generic the FQN past the first "::"
	DeclaringFile   DeclaringFile
	SyntaxNode      any // weak reference into the parse tree

	BaseTypes        []ResolvedType
	Fields           []*FieldInfo
	Methods          []*MethodInfo
	Properties       []*PropertyInfo
	Indexers         []*IndexerInfo
	Constructors     []*ConstructorInfo
	GenericArguments []*TypeInfo
	Constraints      []ResolvedType
}

// String renders the TypeInfo's identity for logs and dumps.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil TypeInfo>"
	}
	return fmt.Sprintf("%s(%s)", t.FullyQualifiedName, t.Class)
}

// GetBaseClass returns the sole class base of t, or nil if t is not a class,
// has no base list, or its first base is not itself a class (spec §4.2).
func (t *TypeInfo) GetBaseClass() *TypeInfo {
	if t.Class != ClassClass || len(t.BaseTypes) == 0 {
		return nil
	}
	base := t.BaseTypes[0].Type
	if base == nil || base.Class != ClassClass {
		return nil
	}
	return base
}

// GatherFieldInfos returns every field visible on t: for a struct, its own
// fields; for a class, every ancestor's fields followed by t's own fields,
// base-most first (spec §4.2).
func (t *TypeInfo) GatherFieldInfos() []*FieldInfo {
	if t.Class != ClassClass {
		return append([]*FieldInfo(nil), t.Fields...)
	}

	var chain []*TypeInfo
	for cur := t; cur != nil; cur = cur.GetBaseClass() {
		chain = append(chain, cur)
	}

	var out []*FieldInfo
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Fields...)
	}
	return out
}

// DetectClassCycle walks the class-base chain starting at t via
// GetBaseClass, returning true and the offending path the moment it
// revisits a node. A node seen earlier in this walk yields the cycle itself
// (first and last entries equal). A node present in visited (nodes covered
// by earlier calls; pass nil for an isolated check) also returns true, with
// the path from t ending at that node. Only class-chain edges participate —
// interfaces never induce a cycle here (spec §4.2).
func (t *TypeInfo) DetectClassCycle(visited map[*TypeInfo]bool) (bool, []*TypeInfo) {
	indexOf := make(map[*TypeInfo]int, 8)
	var path []*TypeInfo
	for cur := t; cur != nil; cur = cur.GetBaseClass() {
		if idx, ok := indexOf[cur]; ok {
			return true, append(append([]*TypeInfo(nil), path[idx:]...), cur)
		}
		if visited[cur] {
			return true, append(append([]*TypeInfo(nil), path...), cur)
		}
		indexOf[cur] = len(path)
		path = append(path, cur)
	}
	return false, nil
}
