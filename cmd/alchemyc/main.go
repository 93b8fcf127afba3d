// Command alchemyc is a thin, primitive collaborator around a TypeTable
// snapshot file: the semantic analyzer itself takes already-parsed syntax
// trees, which this repository does not produce, so the only I/O-facing
// surface worth a CLI is inspecting the tab-separated snapshots the
// analyzer can persist (typetable.Snapshot).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alchemy-lang/semantic/typetable"
)

func main() {
	var snapshotPath string
	flag.StringVar(&snapshotPath, "snapshot", "", "path to a TypeTable snapshot file")
	flag.Parse()

	if snapshotPath == "" {
		log.Fatal("-snapshot is required")
	}

	if err := run(snapshotPath); err != nil {
		log.Fatalf("!! %+v", err)
	}
}

func run(snapshotPath string) error {
	snap := typetable.NewSnapshot(snapshotPath)
	if err := snap.Load(); err != nil {
		return fmt.Errorf("loading snapshot %s: %w", snapshotPath, err)
	}

	entries := snap.Entries()
	fmt.Fprintf(os.Stdout, "%d types\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", e.FullyQualifiedName, e.Class, e.Visibility)
	}
	return nil
}
