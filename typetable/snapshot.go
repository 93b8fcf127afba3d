package typetable

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Snapshot persists a Table's DumpTypeTable output to and from disk, the
// golden-artifact mechanism integration tests compare against (spec §6).
// The RWMutex-guarded content shape mirrors the teacher corpus's on-disk
// cache: one in-memory struct kept consistent with a file path, loaded
// once and saved on demand.
type Snapshot struct {
	mu       sync.RWMutex
	filePath string
	entries  []SnapshotEntry
}

// SnapshotEntry is one line of a dumped type directory.
type SnapshotEntry struct {
	FullyQualifiedName string
	Class              string
	Visibility         string
}

// NewSnapshot creates a Snapshot bound to filePath. The file is not read
// until Load is called.
func NewSnapshot(filePath string) *Snapshot {
	return &Snapshot{filePath: filePath}
}

// Capture replaces the snapshot's in-memory entries with tbl's current
// contents, sorted by FQN.
func (s *Snapshot) Capture(tbl *Table) {
	dump := tbl.DumpTypeTable()
	entries := parseDump(dump)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

// Save writes the captured entries to FilePath in the same tab-separated
// form DumpTypeTable produces, so the file on disk is diffable directly.
func (s *Snapshot) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("typetable: create snapshot %s: %w", s.filePath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range s.entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", e.FullyQualifiedName, e.Class, e.Visibility); err != nil {
			return fmt.Errorf("typetable: write snapshot %s: %w", s.filePath, err)
		}
	}
	return w.Flush()
}

// Load reads FilePath into the snapshot's in-memory entries. A missing
// file is not an error; it yields an empty snapshot, matching the "no
// baseline yet" case on a project's first golden-artifact run.
func (s *Snapshot) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.entries = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("typetable: read snapshot %s: %w", s.filePath, err)
	}

	entries := parseDump(string(data))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

// Entries returns a copy of the snapshot's current entries.
func (s *Snapshot) Entries() []SnapshotEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SnapshotEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Diff compares the snapshot's entries against tbl's current contents and
// returns a human-readable list of discrepancies, empty when they match
// exactly. Used by tests asserting a pipeline run reproduces a checked-in
// golden artifact.
func (s *Snapshot) Diff(tbl *Table) []string {
	want := s.Entries()
	got := parseDump(tbl.DumpTypeTable())

	wantByFqn := make(map[string]SnapshotEntry, len(want))
	for _, e := range want {
		wantByFqn[e.FullyQualifiedName] = e
	}
	gotByFqn := make(map[string]SnapshotEntry, len(got))
	for _, e := range got {
		gotByFqn[e.FullyQualifiedName] = e
	}

	var diffs []string
	for fqn, w := range wantByFqn {
		g, ok := gotByFqn[fqn]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("missing: %s", fqn))
			continue
		}
		if g != w {
			diffs = append(diffs, fmt.Sprintf("changed: %s: want %+v, got %+v", fqn, w, g))
		}
	}
	for fqn := range gotByFqn {
		if _, ok := wantByFqn[fqn]; !ok {
			diffs = append(diffs, fmt.Sprintf("unexpected: %s", fqn))
		}
	}
	return diffs
}

func parseDump(dump string) []SnapshotEntry {
	lines := strings.Split(strings.TrimRight(dump, "\n"), "\n")
	entries := make([]SnapshotEntry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		entries = append(entries, SnapshotEntry{
			FullyQualifiedName: parts[0],
			Class:              parts[1],
			Visibility:         parts[2],
		})
	}
	return entries
}
