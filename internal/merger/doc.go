// Package merger merges external property files into a process-wide
// property namespace during startup.
//
// # Usage
//
// The host's configuration layer fills the slot table, then one of two
// triggers runs the merge:
//
//	ns := namespace.NewMap(nil)
//	m := merger.New(ns, merger.WithOverwrite(false))
//	m.Configure(0, "/etc/app/base.properties")
//	m.Configure(5, "/etc/app/site.properties")
//
//	lc := lifecycle.New()
//	lc.AddListener(m)
//	lc.Fire(lifecycle.BeforeInit, nil) // checkpoint trigger
//
// A configuration parser that sees load-first may call m.Merge(false) before
// the checkpoint. The second call finds the merge already done and returns
// without touching the namespace.
//
// # Merge Order
//
// Slots are visited in ascending index order; empty slots are skipped. With
// overwrite enabled the file in the highest slot wins for a given key. With
// overwrite disabled the first non-empty value, whether it was present before
// the merge or set by an earlier slot, is kept.
//
// # Failures
//
// Nothing is returned to the caller. A file that cannot be opened is logged
// at warn level and skipped, a file that cannot be read or parsed is logged
// at error level and skipped, and a failed close is logged at warn level.
package merger
