// Package typetable implements the thread-safe, hash-indexed directory of
// type descriptors described in spec §4.3: an MSI-style open-addressed hash
// table keyed by FQN, shared across every worker in the Base and Member
// phases. Gather writes under a single mutex; Base and Member read without
// locking except through MakeGenericType's double-checked insertion, the
// same unlocked-build/locked-reprobe shape as resolver.Resolver's cache in
// the teacher corpus.
package typetable

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/alchemy-lang/semantic/typeinfo"
)

const initialExponent = 16

// Table is the directory of every live TypeInfo for one compilation run.
type Table struct {
	mu       sync.Mutex
	values   []*typeinfo.TypeInfo
	exponent uint32
	size     int

	longestEntrySize int

	// BuiltIns holds the eagerly-resolved predefined-type TypeInfos,
	// indexed by typeinfo.BuiltInTypeName (spec §4.8). Populated once by
	// New before any job runs; never mutated afterward, so reads need no
	// synchronization.
	BuiltIns [typeinfo.Void + 1]*typeinfo.TypeInfo
}

// New creates an empty Table and populates BuiltIns.
func New() *Table {
	t := &Table{
		values:   make([]*typeinfo.TypeInfo, 1<<initialExponent),
		exponent: initialExponent,
	}
	t.initBuiltIns()
	return t
}

func fnv1a(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// msiNext advances the probe sequence for hash h under a table of the given
// exponent, starting from idx. This is the standard MSI ("mask, step,
// index") probing recurrence: idx' = (idx + step) mod 2^exponent, where step
// is the top exponent bits of h forced odd. An odd step visits every slot of
// a power-of-two table exactly once before repeating, which is what lets
// addInternal loop on it safely.
func msiNext(h uint32, exponent uint32, idx uint32) uint32 {
	mask := uint32(1)<<exponent - 1
	step := h>>(32-exponent) | 1
	return (idx + step) & mask
}

// TryResolve looks up fqn in the directory. Safe to call concurrently with
// other readers; callers are responsible for external synchronization with
// any concurrent writer (spec §4.3) — in practice that means "not during
// Gather", since Base/Member only write through the self-synchronizing
// MakeGenericType.
func (t *Table) TryResolve(fqn string) (*typeinfo.TypeInfo, bool) {
	return t.lookup(fqn)
}

func (t *Table) lookup(fqn string) (*typeinfo.TypeInfo, bool) {
	h := fnv1a(fqn)
	exponent := t.exponent
	values := t.values
	for idx := h; ; {
		idx = msiNext(h, exponent, idx)
		v := values[idx]
		if v == nil {
			return nil, false
		}
		if v.FullyQualifiedName == fqn {
			return v, true
		}
	}
}

// AddLocked acquires the table's mutex and inserts typeInfo. It returns
// true if the insert succeeded or typeInfo was already present as the
// identical instance; false if a distinct TypeInfo with the same FQN is
// already present (a duplicate-type error the caller must diagnose).
func (t *Table) AddLocked(ti *typeinfo.TypeInfo) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addInternal(ti)
}

// AddUnlocked inserts typeInfo without acquiring the mutex. Only safe
// while no other goroutine touches the table (spec §4.3); New uses it to
// insert the built-ins before the table is shared.
func (t *Table) AddUnlocked(ti *typeinfo.TypeInfo) bool {
	return t.addInternal(ti)
}

func (t *Table) addInternal(ti *typeinfo.TypeInfo) bool {
	fqn := ti.FullyQualifiedName
	h := fnv1a(fqn)
	exponent := t.exponent

	for idx := h; ; {
		idx = msiNext(h, exponent, idx)
		existing := t.values[idx]
		if existing == nil {
			t.values[idx] = ti
			t.size++
			if len(fqn) > t.longestEntrySize {
				t.longestEntrySize = len(fqn)
			}
			if t.size > (1<<t.exponent)>>1 {
				t.resize()
			}
			return true
		}
		if existing == ti {
			return true
		}
		if existing.FullyQualifiedName == fqn {
			return false
		}
	}
}

func (t *Table) resize() {
	newExponent := t.exponent + 1
	newValues := make([]*typeinfo.TypeInfo, 1<<newExponent)
	prevTotal := 1 << t.exponent
	for i := 0; i < prevTotal; i++ {
		ti := t.values[i]
		if ti == nil {
			continue
		}
		h := fnv1a(ti.FullyQualifiedName)
		for idx := h; ; {
			idx = msiNext(h, newExponent, idx)
			if newValues[idx] == nil {
				newValues[idx] = ti
				break
			}
		}
	}
	t.exponent = newExponent
	t.values = newValues
}

// GetValues returns every live TypeInfo in the directory, in no particular
// order.
func (t *Table) GetValues() []*typeinfo.TypeInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*typeinfo.TypeInfo, 0, t.size)
	for _, v := range t.values {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// GetConcreteTypes returns every live TypeInfo excluding generic-argument
// definitions and open generic-type definitions (spec §6 Output).
func (t *Table) GetConcreteTypes() []*typeinfo.TypeInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	exclusions := typeinfo.IsGenericArgumentDefinition | typeinfo.IsGenericTypeDefinition
	out := make([]*typeinfo.TypeInfo, 0, t.size)
	for _, v := range t.values {
		if v == nil || v.Flags&exclusions != 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ReplaceValues atomically swaps the directory's backing slice and count,
// used by tests and by diagnostic tooling that rebuilds a filtered
// snapshot (spec §4.3).
func (t *Table) ReplaceValues(values []*typeinfo.TypeInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := 0
	for _, v := range values {
		if v != nil {
			size++
		}
	}
	t.values = values
	t.size = size
	exponent := uint32(0)
	for (1 << exponent) < len(values) {
		exponent++
	}
	t.exponent = exponent
}

// GetLongestEntrySize returns the byte length of the longest FQN ever
// inserted, used by dump/formatting tools to size columns.
func (t *Table) GetLongestEntrySize() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.longestEntrySize
}

// DumpTypeTable renders a stable textual form of the directory, one line
// per TypeInfo sorted by FQN — the golden artifact for integration tests
// (spec §6).
func (t *Table) DumpTypeTable() string {
	values := t.GetValues()
	sort.Slice(values, func(i, j int) bool {
		return values[i].FullyQualifiedName < values[j].FullyQualifiedName
	})
	var out []byte
	for _, v := range values {
		out = append(out, fmt.Sprintf("%s\t%s\t%s\n", v.FullyQualifiedName, v.Class, visibilityString(v.Visibility))...)
	}
	return string(out)
}

func visibilityString(v typeinfo.Visibility) string {
	switch v {
	case typeinfo.Public:
		return "public"
	case typeinfo.Private:
		return "private"
	case typeinfo.Internal:
		return "internal"
	case typeinfo.Export:
		return "export"
	default:
		return "?"
	}
}
