package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runAppOutput(t, args...)
	return out, err
}

// runAppOutput runs the command and returns what it wrote to stdout and stderr.
func runAppOutput(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"propmerge"}, args...))
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.properties", "db.host=localhost\nshared=base\n")
	site := writeFile(t, dir, "site.properties", "shared=site\nurl=https://${db.host}/\n")
	config := writeFile(t, dir, "config.toml", `
[properties]
file.0 = "`+base+`"
file.4 = "`+site+`"
`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "later slot wins",
			args: []string{"merge"},
			want: "db.host=localhost\nshared=site\nurl=https://${db.host}/\n",
		},
		{
			name: "overwrite disabled keeps first value",
			args: []string{"merge", "--overwrite=false"},
			want: "db.host=localhost\nshared=base\nurl=https://${db.host}/\n",
		},
		{
			name: "preexisting value kept",
			args: []string{"merge", "--overwrite=false", "--set", "shared=host"},
			want: "db.host=localhost\nshared=host\nurl=https://${db.host}/\n",
		},
		{
			name: "extra file takes next slot",
			args: []string{"merge", "--file", writeFile(t, dir, "extra.properties", "shared=extra\n")},
			want: "db.host=localhost\nshared=extra\nurl=https://${db.host}/\n",
		},
		{
			name: "placeholder replacement",
			args: []string{
				"merge",
				"--set", "propmerge.replace-system-properties=true",
				"--property", "connector.url=${url}",
			},
			want: "db.host=localhost\npropmerge.replace-system-properties=true\nshared=site\nurl=https://${db.host}/\n" +
				"\nconnector.url=https://${db.host}/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", config, "--drop-in-dir", filepath.Join(dir, "none"), "--log-level", "error"}, tt.args...)
			got, err := runApp(t, args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeCommand_MissingFileSkipped(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.properties", "a=1\n")
	config := writeFile(t, dir, "config.toml", `
[properties]
file.0 = "`+filepath.Join(dir, "missing.properties")+`"
file.1 = "`+good+`"
`)

	got, err := runApp(t, "--config", config, "--drop-in-dir", filepath.Join(dir, "none"), "--log-level", "error", "merge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a=1\n" {
		t.Errorf("output = %q, want %q", got, "a=1\n")
	}
}

func TestMergeCommand_LoadFirstIncludesFileFlags(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.properties", "a=1\n")
	extra := writeFile(t, dir, "extra.properties", "b=2\n")
	config := writeFile(t, dir, "config.toml", `
[properties]
load-first = true
file.0 = "`+base+`"
`)

	got, err := runApp(t, "--config", config, "--drop-in-dir", filepath.Join(dir, "none"), "--log-level", "error",
		"merge", "--file", extra)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("a=1\nb=2\n", got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSlotsCommand(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "config.toml", `
[properties]
load-first = true
file.7 = "/etc/app/b.properties"
file.2 = "/etc/app/a.properties"
file.100 = "/etc/app/ignored.properties"
`)

	got, summary, err := runAppOutput(t, "--config", config, "--drop-in-dir", filepath.Join(dir, "none"), "--log-level", "error", "slots")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "file.2=/etc/app/a.properties\nfile.7=/etc/app/b.properties\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if summary != "2 property file slots configured\n" {
		t.Errorf("summary = %q", summary)
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "config.toml", "[properties\n")

	if _, err := runApp(t, "--config", config, "--drop-in-dir", filepath.Join(dir, "none"), "merge"); err == nil {
		t.Error("expected error for malformed configuration")
	}
}

func TestParseFileFlags(t *testing.T) {
	tests := []struct {
		name        string
		values      []string
		configured  map[int]string
		want        []string
		expectError bool
	}{
		{
			name:   "explicit and implicit indexes",
			values: []string{"3=/c", "/d", "0=/a"},
			want:   []string{"3=/c", "4=/d", "0=/a"},
		},
		{
			name:       "implicit after configured slots",
			values:     []string{"/x"},
			configured: map[int]string{0: "/a", 9: "/b"},
			want:       []string{"10=/x"},
		},
		{
			name:        "bad index",
			values:      []string{"one=/a"},
			expectError: true,
		},
		{
			name:        "empty path",
			values:      []string{"1="},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directives, err := parseFileFlags(tt.values, tt.configured)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, d := range directives {
				got = append(got, fmtDirective(d.Index, d.Path))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseFileFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func fmtDirective(index int, path string) string {
	return strconv.Itoa(index) + "=" + path
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"b=2", "a=1=x", "b=3", "empty="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []entry{{Key: "a", Value: "1=x"}, {Key: "b", Value: "3"}, {Key: "empty", Value: ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseAssignments() mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseAssignments([]string{"novalue"}); err == nil {
		t.Error("expected error for missing '='")
	}
	if _, err := parseAssignments([]string{"=value"}); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestWriteEntries(t *testing.T) {
	entries := []entry{{Key: "a", Value: "1"}, {Key: "long.key", Value: "2"}}

	var plain bytes.Buffer
	if err := writeEntries(&plain, entries, false); err != nil {
		t.Fatal(err)
	}
	if got := plain.String(); got != "a=1\nlong.key=2\n" {
		t.Errorf("plain output = %q", got)
	}

	var aligned bytes.Buffer
	if err := writeEntries(&aligned, entries, true); err != nil {
		t.Fatal(err)
	}
	if got := aligned.String(); got != "a        = 1\nlong.key = 2\n" {
		t.Errorf("aligned output = %q", got)
	}
}
