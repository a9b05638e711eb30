package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dockgen/dockgen/internal/config/loader"
	"github.com/dockgen/dockgen/internal/schema"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestResolveDefaultsOnly(t *testing.T) {
	r, err := New(WithEnviron([]string{"DOCKGEN_PACKAGE=demo"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if d.Package != "demo" {
		t.Errorf("Package = %q, want %q", d.Package, "demo")
	}
	if d.Dev.Image != schema.FallbackImage {
		t.Errorf("Dev.Image = %q, want fallback %q", d.Dev.Image, schema.FallbackImage)
	}
	if d.Dev.PoetryVersion != schema.DefaultPoetryVersion {
		t.Errorf("Dev.PoetryVersion = %q", d.Dev.PoetryVersion)
	}
	if d.ScriptsPath != schema.DefaultScriptsPath {
		t.Errorf("ScriptsPath = %q", d.ScriptsPath)
	}
}

func TestResolveFromFile(t *testing.T) {
	path := writeConfig(t, "dockgen.toml", `
package = "demo"

[dev]
repository = "python"
tag = "3.9-alpine"

[prod]
image = "python:3.9-alpine"
cmd = "--help"
`)

	r, err := New(WithEnviron([]string{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if d.Package != "demo" {
		t.Errorf("Package = %q", d.Package)
	}
	if d.Dev.Image != "python:3.9-alpine" {
		t.Errorf("Dev.Image = %q, want derived image", d.Dev.Image)
	}
	if d.Prod.Repository != "python" || d.Prod.Tag != "3.9-alpine" {
		t.Errorf("Prod parts = %q/%q, want back-filled", d.Prod.Repository, d.Prod.Tag)
	}
	if d.Prod.Cmd != "--help" {
		t.Errorf("Prod.Cmd = %q", d.Prod.Cmd)
	}
}

func TestResolvePrecedence(t *testing.T) {
	path := writeConfig(t, "dockgen.yaml", `
package: from-file
scripts_path: /opt/scripts
dev:
  repository: python
  tag: "3.8"
`)

	r, err := New(WithEnviron([]string{
		"DOCKGEN_PACKAGE=from-env",
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	// Environment beats file, file beats defaults, and the sibling
	// keys of partially overridden maps survive the merge.
	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Package != "from-env" {
		t.Errorf("Package = %q, want env value", d.Package)
	}
	if d.ScriptsPath != "/opt/scripts" {
		t.Errorf("ScriptsPath = %q, want file value", d.ScriptsPath)
	}
	if d.Dev.Image != "python:3.8" {
		t.Errorf("Dev.Image = %q", d.Dev.Image)
	}

	// Call-time overrides beat everything and do not persist.
	d, err = r.Resolve(map[string]any{
		"package": "from-call",
		"dev":     map[string]any{"tag": "3.9"},
	})
	if err != nil {
		t.Fatalf("Resolve(overrides) error = %v", err)
	}
	if d.Package != "from-call" {
		t.Errorf("Package = %q, want call-time value", d.Package)
	}
	if d.Dev.Image != "python:3.9" {
		t.Errorf("Dev.Image = %q, want repository kept and tag overridden", d.Dev.Image)
	}

	d, err = r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Package != "from-env" {
		t.Errorf("Package = %q after ephemeral overrides, want env value", d.Package)
	}
}

func TestSetOverrides(t *testing.T) {
	r, err := New(WithEnviron([]string{"DOCKGEN_PACKAGE=demo"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r.SetOverrides(map[string]any{"dev": map[string]any{"tag": 3.9, "repository": "python"}})
	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Dev.Image != "python:3.9" {
		t.Errorf("Dev.Image = %q", d.Dev.Image)
	}

	// A later call replaces the whole override layer.
	r.SetOverrides(nil)
	d, err = r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Dev.Image != schema.FallbackImage {
		t.Errorf("Dev.Image = %q after clearing overrides", d.Dev.Image)
	}
}

func TestEnvLayerJSONValues(t *testing.T) {
	r, err := New(WithEnviron([]string{
		"DOCKGEN_PACKAGE=demo",
		`DOCKGEN_DEV={"repository": "python", "tag": "3.9-alpine"}`,
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Dev.Image != "python:3.9-alpine" {
		t.Errorf("Dev.Image = %q", d.Dev.Image)
	}
}

func TestConfigPath(t *testing.T) {
	r, err := New(WithEnviron([]string{"DOCKGEN_CFG_FILE=/etc/dockgen.toml"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if p, err := r.ConfigPath("explicit.toml"); err != nil || p != "explicit.toml" {
		t.Errorf("ConfigPath(explicit) = %q, %v", p, err)
	}
	if p, err := r.ConfigPath(""); err != nil || p != "/etc/dockgen.toml" {
		t.Errorf("ConfigPath(env) = %q, %v", p, err)
	}

	// CFG_FILE routes the path only; it must not leak into the tree.
	if _, ok := r.Tree()["cfg_file"]; ok {
		t.Error("cfg_file leaked into the configuration tree")
	}

	r2, err := New(WithEnviron([]string{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := r2.ConfigPath(""); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("ConfigPath() error = %v, want ErrNoConfigFile", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	r, err := New(WithEnviron([]string{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	t.Run("missing file", func(t *testing.T) {
		err := r.LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			t.Fatalf("error = %T, want *LoadError", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, does not wrap fs.ErrNotExist", err)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "dockgen.ini", "package = demo")
		err := r.LoadFile(path)
		var uerr *loader.UnsupportedFormatError
		if !errors.As(err, &uerr) {
			t.Fatalf("error = %v, want *loader.UnsupportedFormatError", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "dockgen.json", "{not json")
		err := r.LoadFile(path)
		var perr *loader.ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("error = %v, want *loader.ParseError", err)
		}
	})
}

func TestReload(t *testing.T) {
	r, err := New(WithEnviron([]string{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := r.Reload(); !errors.Is(err, ErrNoFileLayer) {
		t.Errorf("Reload() error = %v, want ErrNoFileLayer", err)
	}

	path := writeConfig(t, "dockgen.json", `{"package": "first"}`)
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if d, err := r.Resolve(nil); err != nil || d.Package != "first" {
		t.Fatalf("Resolve() = %v, %v", d, err)
	}

	if err := os.WriteFile(path, []byte(`{"package": "second"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	d, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.Package != "second" {
		t.Errorf("Package = %q after reload, want %q", d.Package, "second")
	}
	if r.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", r.FilePath(), path)
	}
}

func TestResolveValidationFailure(t *testing.T) {
	r, err := New(WithEnviron([]string{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = r.Resolve(nil)
	var verrs *schema.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want *schema.ValidationErrors for missing package", err)
	}
}
