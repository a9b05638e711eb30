package main

import (
	"reflect"
	"testing"
)

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantErr bool
	}{
		{name: "defaults", opts: options{}, wantErr: false},
		{name: "output without watch", opts: options{outputPath: "Dockerfile"}, wantErr: false},
		{name: "watch with output", opts: options{watch: true, outputPath: "Dockerfile"}, wantErr: false},
		{name: "watch without output", opts: options{watch: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptions(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOptions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOverrideTree(t *testing.T) {
	tree, err := overrideTree([]string{
		"package=demo",
		"dev.tag=3.10-slim",
		`prod.env={"DEBUG": "0"}`,
	})
	if err != nil {
		t.Fatalf("overrideTree() error = %v", err)
	}

	want := map[string]any{
		"package": "demo",
		"dev":     map[string]any{"tag": "3.10-slim"},
		"prod": map[string]any{
			"env": map[string]any{"DEBUG": "0"},
		},
	}
	if !reflect.DeepEqual(tree, want) {
		t.Errorf("overrideTree() = %v, want %v", tree, want)
	}
}

func TestOverrideTreeInvalid(t *testing.T) {
	for _, pair := range []string{"no-equals", "=value"} {
		if _, err := overrideTree([]string{pair}); err == nil {
			t.Errorf("overrideTree(%q) succeeded, want error", pair)
		}
	}
}

func TestOverrideTreeEmpty(t *testing.T) {
	tree, err := overrideTree(nil)
	if err != nil || tree != nil {
		t.Errorf("overrideTree(nil) = %v, %v", tree, err)
	}
}
