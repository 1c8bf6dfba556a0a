package conf

// Target receives the [properties] settings of a Config.
type Target interface {
	SetOverwrite(bool)
	SetLoadFirst(bool)
	Configure(index int, path string)
	Merge(force bool)
}

// Apply replays cfg's directives on t in the order they were read. If the
// last load-first directive turns the flag on, t.Merge(false) is called once
// every directive has been applied, so the merge sees the complete slot
// table and final policy.
func Apply(cfg Config, t Target) {
	eager := false
	for _, d := range cfg.Directives {
		switch d.Kind {
		case DirectiveOverwrite:
			t.SetOverwrite(d.Bool)
		case DirectiveLoadFirst:
			t.SetLoadFirst(d.Bool)
			eager = d.Bool
		case DirectiveFile:
			t.Configure(d.Index, d.Path)
		}
	}
	if eager {
		t.Merge(false)
	}
}
