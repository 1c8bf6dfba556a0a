package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/redhatinsights/propmerge/internal/namespace"
)

// entry is one printed key/value pair.
type entry struct {
	Key   string
	Value string
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeEntries prints entries as an aligned table when aligned is set and as
// key=value lines otherwise.
func writeEntries(w io.Writer, entries []entry, aligned bool) error {
	if !aligned {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s=%s\n", e.Key, e.Value); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t= %s\n", e.Key, e.Value)
	}
	return tw.Flush()
}

func namespaceEntries(ns namespace.Namespace) []entry {
	keys := ns.Keys()
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		v, _ := ns.Lookup(k)
		entries = append(entries, entry{Key: k, Value: v})
	}
	return entries
}
