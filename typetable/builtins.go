package typetable

import (
	"github.com/alchemy-lang/semantic/naming"
	"github.com/alchemy-lang/semantic/typeinfo"
)

// builtInNames maps each BuiltInTypeName to its canonical type name, sourced
// from the full predefined-type enumeration (SPEC_FULL.md, supplemented
// feature 1), which includes the vector and color swizzle types beyond
// what spec.md's distillation mentioned explicitly.
var builtInNames = map[typeinfo.BuiltInTypeName]string{
	typeinfo.Int:     "Int32",
	typeinfo.Int2:    "Int2",
	typeinfo.Int3:    "Int3",
	typeinfo.Int4:    "Int4",
	typeinfo.Uint:    "UInt",
	typeinfo.Uint2:   "UInt2",
	typeinfo.Uint3:   "UInt3",
	typeinfo.Uint4:   "UInt4",
	typeinfo.Float:   "Float",
	typeinfo.Float2:  "Float2",
	typeinfo.Float3:  "Float3",
	typeinfo.Float4:  "Float4",
	typeinfo.Bool:    "Bool",
	typeinfo.Char:    "Char",
	typeinfo.Color:   "Color",
	typeinfo.Color32: "Color32",
	typeinfo.Color64: "Color64",
	typeinfo.Byte:    "Byte",
	typeinfo.Sbyte:   "SByte",
	typeinfo.Short:   "Int16",
	typeinfo.Ushort:  "UInt16",
	typeinfo.Long:    "Int64",
	typeinfo.Ulong:   "UInt64",
	typeinfo.Dynamic: "Dynamic",
	typeinfo.String:  "String",
	typeinfo.Object:  "Object",
	typeinfo.Double:  "Double",
	typeinfo.Void:    "Void",
}

// builtInNamespace is the pseudo-namespace Resolver recognizes for the
// `Array<T>` special case (spec §4.4) and that backs every built-in FQN.
const builtInNamespace = "BuiltIn"

// initBuiltIns eagerly resolves every predefined type into BuiltIns and
// inserts it into the directory under its canonical FQN, so that no worker
// ever needs to synchronize to read a built-in (spec §4.8).
func (t *Table) initBuiltIns() {
	for builtin, name := range builtInNames {
		class := typeinfo.ClassStruct
		if builtin == typeinfo.Void {
			class = typeinfo.ClassVoid
		} else if builtin == typeinfo.String || builtin == typeinfo.Object || builtin == typeinfo.Dynamic {
			class = typeinfo.ClassClass
		}

		flags := typeinfo.Flags(0)
		if typeinfo.IsPrimitiveBuiltIn(builtin) {
			flags |= typeinfo.IsPrimitive
		}

		ti := &typeinfo.TypeInfo{
			Class:              class,
			Flags:              flags,
			Visibility:         typeinfo.Public,
			BuiltIn:            builtin,
			FullyQualifiedName: naming.MakeFullyQualifiedName(builtInNamespace, name, 0),
			TypeName:           name,
		}
		t.BuiltIns[builtin] = ti
		t.AddUnlocked(ti)
	}
}
