// Package conf reads the propmerge host configuration and replays its
// [properties] settings onto a property merger.
//
// # Usage
//
//	cs := conf.DefaultSource()
//	config, err := cs.Read()
//	if err != nil {
//	    return err
//	}
//	m := merger.New(ns, merger.WithOverwrite(config.Overwrite))
//	conf.Apply(config, m)
//
// # Load Order
//
// Config is loaded and applied in three layers:
//
//  1. Embedded defaults
//  2. Main config file: /etc/propmerge/config.toml
//  3. Drop-in files: /etc/propmerge/config.toml.d/*.toml, in lexicographic order
//
// # Format
//
//	log-level = "INFO"
//
//	[properties]
//	overwrite = false
//	load-first = true
//	file.0 = "/etc/app/base.properties"
//	file.3 = "/etc/app/site.properties"
//
// Each file.N key fills slot N of the merger. Keys are not required to be
// contiguous. An index too large to represent is logged and skipped.
//
// # Internal Architecture
//
//   - configDTO: internal struct with pointer fields for TOML parsing.
//     Pointers allow distinguishing "not set" (nil) from "set to zero value".
//     The [properties] keys are also recorded as Directives, in the order
//     toml.MetaData reports them.
//
//   - Config: public struct with value fields plus the accumulated
//     Directives of every layer. Has Update() method to apply DTO values.
//
//   - ConfigSource: orchestrates loading from multiple sources and manages
//     their merging.
//
//   - Apply: replays Directives on a Target. When load-first ends up true,
//     the merge runs once all directives are applied, so it sees every slot
//     of every layer.
package conf
