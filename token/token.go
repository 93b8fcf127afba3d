// Package token defines the lexical token kinds the semantic layer reads
// from an upstream-parsed syntax tree, and the keyword recognizer contract
// described in spec §6. Tokenization itself is out of scope; this package
// only carries the closed vocabulary the resolver and job phases switch on.
package token

// Kind identifies the lexical category of a token produced by the upstream
// lexer. Only the subset the semantic layer inspects (keywords used as
// modifiers or predefined-type names, plus a handful of punctuation kinds
// used by the syntax package) is represented here.
type Kind int

const (
	None Kind = iota
	Identifier

	// Predefined type keywords (builtInTypeInfos, §4.8).
	IntKeyword
	Int2Keyword
	Int3Keyword
	Int4Keyword
	UIntKeyword
	Uint2Keyword
	Uint3Keyword
	Uint4Keyword
	FloatKeyword
	Float2Keyword
	Float3Keyword
	Float4Keyword
	BoolKeyword
	CharKeyword
	ColorKeyword
	Color32Keyword
	Color64Keyword
	ByteKeyword
	SByteKeyword
	ShortKeyword
	UShortKeyword
	LongKeyword
	ULongKeyword
	DynamicKeyword
	StringKeyword
	ObjectKeyword
	DoubleKeyword
	VoidKeyword

	// Declaration keywords.
	ClassKeyword
	StructKeyword
	InterfaceKeyword
	EnumKeyword
	DelegateKeyword
	WidgetKeyword
	NamespaceKeyword
	UsingKeyword

	// Visibility keywords.
	PublicKeyword
	PrivateKeyword
	InternalKeyword
	ExportKeyword
	ProtectedKeyword

	// Modifier keywords.
	StaticKeyword
	ReadOnlyKeyword
	ConstKeyword
	SealedKeyword
	AbstractKeyword
	OverrideKeyword
	VirtualKeyword
	RefKeyword
	OutKeyword
	TempKeyword

	// Miscellaneous reserved words relevant to scoping/ordering checks.
	ThisKeyword
	BaseKeyword
)

// keywords holds the (string, Kind) pairs backing LookupKeyword. Length bounds
// mirror the external contract in spec §6: every keyword is 2-11 bytes.
var keywords = map[string]Kind{
	"int":       IntKeyword,
	"int2":      Int2Keyword,
	"int3":      Int3Keyword,
	"int4":      Int4Keyword,
	"uint":      UIntKeyword,
	"uint2":     Uint2Keyword,
	"uint3":     Uint3Keyword,
	"uint4":     Uint4Keyword,
	"float":     FloatKeyword,
	"float2":    Float2Keyword,
	"float3":    Float3Keyword,
	"float4":    Float4Keyword,
	"bool":      BoolKeyword,
	"char":      CharKeyword,
	"color":     ColorKeyword,
	"color32":   Color32Keyword,
	"color64":   Color64Keyword,
	"byte":      ByteKeyword,
	"sbyte":     SByteKeyword,
	"short":     ShortKeyword,
	"ushort":    UShortKeyword,
	"long":      LongKeyword,
	"ulong":     ULongKeyword,
	"dynamic":   DynamicKeyword,
	"string":    StringKeyword,
	"object":    ObjectKeyword,
	"double":    DoubleKeyword,
	"void":      VoidKeyword,
	"class":     ClassKeyword,
	"struct":    StructKeyword,
	"interface": InterfaceKeyword,
	"enum":      EnumKeyword,
	"delegate":  DelegateKeyword,
	"widget":    WidgetKeyword,
	"namespace": NamespaceKeyword,
	"using":     UsingKeyword,
	"public":    PublicKeyword,
	"private":   PrivateKeyword,
	"internal":  InternalKeyword,
	"export":    ExportKeyword,
	"protected": ProtectedKeyword,
	"static":    StaticKeyword,
	"readonly":  ReadOnlyKeyword,
	"const":     ConstKeyword,
	"sealed":    SealedKeyword,
	"abstract":  AbstractKeyword,
	"override":  OverrideKeyword,
	"virtual":   VirtualKeyword,
	"ref":       RefKeyword,
	"out":       OutKeyword,
	"temp":      TempKeyword,
	"this":      ThisKeyword,
	"base":      BaseKeyword,
}

// minKeywordLen and maxKeywordLen bound the lengths LookupKeyword will ever
// match, per the external contract in spec §6.
const (
	minKeywordLen = 2
	maxKeywordLen = 11
)

// lengthBuckets groups keyword->Kind pairs by byte length so LookupKeyword
// can reject out-of-range buffers in O(1) and otherwise compare only
// same-length candidates, the same two-level shape (dispatch, then a tail
// check) as the reference keyword trie without hand-rolling its exact
// byte-pair switch.
var lengthBuckets [maxKeywordLen + 1]map[string]Kind

func init() {
	for word, kind := range keywords {
		n := len(word)
		if lengthBuckets[n] == nil {
			lengthBuckets[n] = make(map[string]Kind)
		}
		lengthBuckets[n][word] = kind
	}
}

// LookupKeyword returns the Kind for buf if and only if buf is byte-for-byte
// one of the language's reserved or contextual keyword strings. It returns
// (None, false) for any other input, including identifiers that merely
// share a prefix with a keyword. Matching any equivalent trie satisfies the
// external contract in spec §6; this implementation only needs the lookup
// to be exact and bounded to [2, 11] bytes.
func LookupKeyword(buf []byte) (Kind, bool) {
	n := len(buf)
	if n < minKeywordLen || n > maxKeywordLen {
		return None, false
	}
	bucket := lengthBuckets[n]
	if bucket == nil {
		return None, false
	}
	kind, ok := bucket[string(buf)]
	return kind, ok
}

// IsModifierKeyword reports whether kind is one of the declaration/member
// modifier keywords (Sealed, Abstract, Static, Const, ...), as opposed to a
// visibility, predefined-type, or declaration keyword.
func IsModifierKeyword(k Kind) bool {
	switch k {
	case StaticKeyword, ReadOnlyKeyword, ConstKeyword, SealedKeyword, AbstractKeyword,
		OverrideKeyword, VirtualKeyword, RefKeyword, OutKeyword, TempKeyword:
		return true
	default:
		return false
	}
}

// IsVisibilityKeyword reports whether kind names a visibility modifier.
func IsVisibilityKeyword(k Kind) bool {
	switch k {
	case PublicKeyword, PrivateKeyword, InternalKeyword, ExportKeyword:
		return true
	default:
		return false
	}
}
