package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func writeConfig(t *testing.T, dir, data string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "crates", "demo")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := findConfigFile(nested)
	if err != nil || !ok {
		t.Fatalf("findConfigFile = %q, %v, %v", got, ok, err)
	}
	if got != want {
		t.Errorf("found %q, want %q", got, want)
	}
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[annotate]\nallow_warning = true\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestResolveSettings_Defaults(t *testing.T) {
	fs := newToolFlags()
	s, err := resolveSettings(fs, envOf(nil), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	want := settings{cargo: "cargo", ui: uiModeAuto}
	if diff := cmp.Diff(want, s, cmp.AllowUnexported(settings{}), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSettings_Environment(t *testing.T) {
	fs := newToolFlags()
	env := envOf(map[string]string{"CARGO": "/opt/cargo", "GITHUB_STEP_SUMMARY": "/tmp/step.md"})
	s, err := resolveSettings(fs, env, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if s.cargo != "/opt/cargo" || s.summaryPath != "/tmp/step.md" {
		t.Errorf("settings = %+v", s)
	}
}

func TestResolveSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[annotate]
allow_warnings = true
exclude = ["vendor/**"]
state = "target/ghannotate.state"

[summary]
path = "summary.md"
`)
	env := envOf(map[string]string{"GITHUB_STEP_SUMMARY": "/tmp/step.md"})

	// config beats environment
	fs := newToolFlags()
	s, err := resolveSettings(fs, env, dir)
	if err != nil {
		t.Fatal(err)
	}
	if !s.allowWarnings || s.summaryPath != filepath.Join(dir, "summary.md") || s.configPath != path {
		t.Errorf("settings = %+v", s)
	}
	if s.statePath != filepath.Join(dir, "target", "ghannotate.state") {
		t.Errorf("state = %q", s.statePath)
	}
	if diff := cmp.Diff([]string{"vendor/**"}, s.exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}

	// explicit flags beat config
	fs = newToolFlags()
	for name, value := range map[string]string{
		"allow-warnings": "false",
		"summary":        "flag.md",
		"exclude":        "gen/**",
		"config":         path,
	} {
		if err := fs.Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	s, err = resolveSettings(fs, env, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if s.allowWarnings || s.summaryPath != "flag.md" {
		t.Errorf("settings = %+v", s)
	}
	if diff := cmp.Diff([]string{"gen/**"}, s.exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSettings_MissingExplicitConfig(t *testing.T) {
	fs := newToolFlags()
	if err := fs.Set("config", filepath.Join(t.TempDir(), "nope.toml")); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveSettings(fs, envOf(nil), t.TempDir()); err == nil {
		t.Fatal("expected error for missing --config file")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error")
	}
}
