package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/redhatinsights/propmerge/internal/conf"
	"github.com/redhatinsights/propmerge/internal/l10n"
	"github.com/redhatinsights/propmerge/internal/lifecycle"
	"github.com/redhatinsights/propmerge/internal/merger"
	"github.com/redhatinsights/propmerge/internal/namespace"
	"github.com/redhatinsights/propmerge/internal/placeholder"
)

func mergeCommand() *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: l10n.T("load the configured property files and print the merged namespace"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "file",
				Usage: l10n.T("add a property file as `INDEX=PATH`, or PATH for the next free slot"),
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: l10n.T("replace existing non-empty properties, overriding the configuration"),
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: l10n.T("merge again after the startup merge has completed"),
			},
			&cli.BoolFlag{
				Name:  "env",
				Usage: l10n.T("merge into the process environment instead of an empty namespace"),
			},
			&cli.StringFlag{
				Name:  "env-prefix",
				Usage: l10n.T("prefix environment variable names with `PREFIX`"),
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: l10n.T("set `KEY=VALUE` in the namespace before merging"),
			},
			&cli.StringSliceFlag{
				Name:  "property",
				Usage: l10n.T("register configuration property `NAME=VALUE` for ${key} replacement"),
			},
		},
		Action: mergeAction,
	}
}

func slotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: l10n.T("print the configured property file slots"),
		Action: func(c *cli.Context) error {
			m := merger.New(namespace.NewMap(nil), merger.WithLogger(appLogger(c)))
			conf.Apply(withoutEagerMerge(appConfig(c)), m)

			slots := m.Slots()
			var entries []entry
			for _, s := range slots {
				entries = append(entries, entry{Key: "file." + strconv.Itoa(s.Index), Value: s.Path})
			}
			if err := writeEntries(c.App.Writer, entries, isTerminal(c.App.Writer)); err != nil {
				return err
			}
			fmt.Fprintln(c.App.ErrWriter, l10n.TN("%d property file slot configured", "%d property file slots configured", uint32(len(slots)), len(slots)))
			return nil
		},
	}
}

func mergeAction(c *cli.Context) error {
	logger := appLogger(c)
	cfg, err := mergeDirectives(c, appConfig(c))
	if err != nil {
		return cli.Exit(err, 1)
	}

	var ns namespace.Namespace
	if c.Bool("env") {
		ns = namespace.Env{Prefix: c.String("env-prefix")}
	} else {
		ns = namespace.NewMap(nil)
	}
	seed, err := parseAssignments(c.StringSlice("set"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, kv := range seed {
		if err := ns.Set(kv.Key, kv.Value); err != nil {
			return cli.Exit(err, 1)
		}
	}

	registry := placeholder.NewRegistry(logger)
	registered, err := parseAssignments(c.StringSlice("property"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, kv := range registered {
		registry.Register(kv.Key, kv.Value)
	}

	m := merger.New(ns,
		merger.WithLogger(logger),
		merger.WithSubstituter(registry),
	)
	lc := lifecycle.New()
	lc.AddListener(m)

	conf.Apply(cfg, m)
	lc.Fire(lifecycle.BeforeInit, nil)
	if c.Bool("force") {
		m.Merge(true)
	}
	lc.Fire(lifecycle.AfterInit, nil)

	aligned := isTerminal(c.App.Writer)
	if err := writeEntries(c.App.Writer, namespaceEntries(ns), aligned); err != nil {
		return err
	}
	if names := registry.Names(); len(names) > 0 {
		fmt.Fprintln(c.App.Writer)
		entries := make([]entry, 0, len(names))
		for _, name := range names {
			v, _ := registry.Value(name)
			entries = append(entries, entry{Key: name, Value: v})
		}
		return writeEntries(c.App.Writer, entries, aligned)
	}
	return nil
}

// mergeDirectives adds the command line settings to the configured
// directives. An --overwrite flag replaces every configured overwrite
// setting, so it also governs an eager merge. --file slots come last.
func mergeDirectives(c *cli.Context, cfg conf.Config) (conf.Config, error) {
	var directives []conf.Directive
	if c.IsSet("overwrite") {
		directives = append(directives, conf.Directive{Kind: conf.DirectiveOverwrite, Bool: c.Bool("overwrite")})
	}
	for _, d := range cfg.Directives {
		if d.Kind == conf.DirectiveOverwrite && c.IsSet("overwrite") {
			continue
		}
		directives = append(directives, d)
	}

	files, err := parseFileFlags(c.StringSlice("file"), cfg.Files)
	if err != nil {
		return cfg, err
	}
	directives = append(directives, files...)

	cfg.Directives = directives
	return cfg, nil
}

// withoutEagerMerge drops load-first directives so the configuration can be
// replayed without loading any file.
func withoutEagerMerge(cfg conf.Config) conf.Config {
	var directives []conf.Directive
	for _, d := range cfg.Directives {
		if d.Kind != conf.DirectiveLoadFirst {
			directives = append(directives, d)
		}
	}
	cfg.Directives = directives
	return cfg
}

// parseFileFlags turns --file values into file directives. A value without an
// index takes the slot after the highest slot used so far.
func parseFileFlags(values []string, configured map[int]string) ([]conf.Directive, error) {
	next := 0
	for i := range configured {
		if i >= next {
			next = i + 1
		}
	}

	var directives []conf.Directive
	for _, v := range values {
		index := next
		path := v
		if before, after, found := strings.Cut(v, "="); found {
			i, err := strconv.Atoi(before)
			if err != nil {
				return nil, fmt.Errorf(l10n.T("invalid file index in %q"), v)
			}
			index, path = i, after
		}
		if path == "" {
			return nil, fmt.Errorf(l10n.T("empty file path in %q"), v)
		}
		directives = append(directives, conf.Directive{Kind: conf.DirectiveFile, Index: index, Path: path})
		if index >= next {
			next = index + 1
		}
	}
	return directives, nil
}

// parseAssignments parses KEY=VALUE arguments. Later assignments to the same
// key win; the result is sorted by key.
func parseAssignments(values []string) ([]entry, error) {
	m := make(map[string]string, len(values))
	for _, v := range values {
		key, value, found := strings.Cut(v, "=")
		if !found || key == "" {
			return nil, fmt.Errorf(l10n.T("expected KEY=VALUE, got %q"), v)
		}
		m[key] = value
	}

	out := make([]entry, 0, len(m))
	for k, v := range m {
		out = append(out, entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
