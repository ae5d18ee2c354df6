package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/pixel-track-go/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn,
		"error": slog.LevelError, "bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestRun_StartupFailures(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"features": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("features:\n  - type: raw\n    kernel: linear\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"one arg", []string{good}},
		{"empty features", []string{empty, dir}},
		{"missing config", []string{filepath.Join(dir, "nope.json"), dir}},
		{"unopenable source", []string{good, filepath.Join(dir, "missing.avi")}},
		{"bad flag", []string{"-nope", good, dir}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := run(tc.args); code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
		})
	}
}

func TestRun_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(in, []byte("searchRadius: -4\nfeatures:\n  - type: HISTOGRAM\n    kernel: chi2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.json")
	if code := run([]string{"-write-config", out, in}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	cfg, err := config.Load(out)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.SearchRadius != 30 || cfg.Features[0].Type != config.FeatureHistogram {
		t.Fatalf("expected normalised config, got %+v", cfg)
	}
}
