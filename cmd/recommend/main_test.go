// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/pigment/internal/catalog"
)

const signalJSON = `[
  {"bgr":[10,20,30],"hsv":[100,50,40],"lab":[20,5,5],"percentage":0.3},
  {"bgr":[200,210,220],"hsv":[30,20,220],"lab":[85,-2,3],"percentage":0.25},
  {"bgr":[90,40,160],"hsv":[280,150,160],"lab":[40,45,-30],"percentage":0.2},
  {"bgr":[30,140,60],"hsv":[120,200,140],"lab":[50,-40,30],"percentage":0.15},
  {"bgr":[5,5,5],"hsv":[0,0,5],"lab":[2,0,0],"percentage":0.1}
]`

// writeCatalog writes a three-cluster catalog and points the environment at it.
func writeCatalog(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	var palettes strings.Builder
	palettes.WriteString("cluster_id," + strings.Join(catalog.PaletteColumns, ",") + "\n")
	centers := [][9]float64{
		{10, 20, 30, 100, 50, 40, 20, 5, 5},
		{200, 210, 220, 30, 20, 220, 85, -2, 3},
		{90, 40, 160, 280, 150, 160, 40, 45, -30},
	}
	for id, c := range centers {
		fmt.Fprintf(&palettes, "%d", id)
		for _, v := range c {
			fmt.Fprintf(&palettes, ",%g", v)
		}
		palettes.WriteString("\n")
	}

	var items strings.Builder
	items.WriteString("filename,page,image,cluster_id," + strings.Join(catalog.FeatureColumns, ",") + "\n")
	for i := 0; i < 60; i++ {
		cluster := i % len(centers)
		fmt.Fprintf(&items, "%03d.jpg,https://artsandculture.google.com/asset/study-%d-painter-%d/X%d,https://img.example/%d.jpg,%d",
			i, i, i%7, i, i, cluster)
		for d, v := range centers[cluster] {
			fmt.Fprintf(&items, ",%g", v+float64((i*7+d)%11))
		}
		for d := 0; d < 9; d++ {
			fmt.Fprintf(&items, ",%d", 5+(i+d)%9)
		}
		items.WriteString("\n")
	}

	palettesPath := filepath.Join(dir, "palettes.csv")
	itemsPath := filepath.Join(dir, "items.csv")
	if err := os.WriteFile(palettesPath, []byte(palettes.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(itemsPath, []byte(items.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CLUSTER_PALETTES_PATH", palettesPath)
	t.Setenv("COLOUR_DATA_PATH", itemsPath)
	t.Setenv("EXPOSURE_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
	// Keep slate sizes independent of how the catalog spreads over clusters.
	t.Setenv("QUOTA_MAX", "1")
}

type cliOutput struct {
	Recommendations []struct {
		Filename  string  `json:"filename"`
		ClusterID int     `json:"cluster_id"`
		Score     float64 `json:"similarity_score"`
	} `json:"recommendations"`
	Diagnostics map[string]json.RawMessage `json:"diagnostics"`
	Metadata    struct {
		Seed int64 `json:"seed"`
	} `json:"metadata"`
}

func runCLI(t *testing.T, args ...string) (int, *cliOutput, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	if code != exitOK {
		return code, nil, stderr.String()
	}
	var out cliOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout.String())
	}
	return code, &out, stderr.String()
}

func TestRun_BareArray(t *testing.T) {
	writeCatalog(t)

	code, out, stderr := runCLI(t, "-k", "5", "-seed", "11", signalJSON)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if len(out.Recommendations) != 5 {
		t.Errorf("len(recommendations) = %d, want 5", len(out.Recommendations))
	}
	if out.Metadata.Seed != 11 {
		t.Errorf("metadata.seed = %d, want 11", out.Metadata.Seed)
	}
	if _, ok := out.Diagnostics["cluster_percentages"]; !ok {
		t.Error("diagnostics missing cluster_percentages")
	}
}

func TestRun_RequestObjectIsDeterministic(t *testing.T) {
	writeCatalog(t)

	body := `{"colors":` + signalJSON + `,"seed":99,"k":4}`
	_, first, _ := runCLI(t, "-compact", body)
	_, second, _ := runCLI(t, body)
	if first == nil || second == nil {
		t.Fatal("expected successful runs")
	}
	if len(first.Recommendations) != 4 {
		t.Fatalf("len(recommendations) = %d, want 4", len(first.Recommendations))
	}
	for i := range first.Recommendations {
		if first.Recommendations[i].Filename != second.Recommendations[i].Filename {
			t.Errorf("slot %d differs: %s vs %s", i, first.Recommendations[i].Filename, second.Recommendations[i].Filename)
		}
	}
}

func TestRun_UsageErrors(t *testing.T) {
	writeCatalog(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no argument", nil, "exactly one"},
		{"two arguments", []string{signalJSON, signalJSON}, "exactly one"},
		{"malformed json", []string{"[{"}, "invalid colours json"},
		{"empty input", []string{"  "}, "empty input"},
		{"four colours", []string{`[{"bgr":[1,1,1],"percentage":1},{"bgr":[1,1,1],"percentage":1},{"bgr":[1,1,1],"percentage":1},{"bgr":[1,1,1],"percentage":1}]`}, "exactly 5"},
		{"missing percentage", []string{strings.Replace(signalJSON, `,"percentage":0.25`, "", 1)}, "colors[1].percentage is required"},
		{"missing hsv", []string{strings.Replace(signalJSON, `"hsv":[120,200,140],`, "", 1)}, "colors[3].hsv is required"},
		{"two channel bgr", []string{strings.Replace(signalJSON, `"bgr":[90,40,160]`, `"bgr":[90,40]`, 1)}, "colors[2].bgr must contain exactly 3 items"},
		{"k too large", []string{"-k", "500", signalJSON}, "k must be"},
		{"unknown flag", []string{"-bogus", signalJSON}, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestRun_MissingCatalog(t *testing.T) {
	writeCatalog(t)
	t.Setenv("COLOUR_DATA_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	code, _, _ := runCLI(t, signalJSON)
	if code != exitError {
		t.Errorf("exit code = %d, want %d", code, exitError)
	}
}

func TestRun_FlagOverridesPaths(t *testing.T) {
	writeCatalog(t)
	items := os.Getenv("COLOUR_DATA_PATH")
	t.Setenv("COLOUR_DATA_PATH", "/nonexistent/items.csv")

	code, out, stderr := runCLI(t, "-items", items, "-k", "3", signalJSON)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if len(out.Recommendations) != 3 {
		t.Errorf("len(recommendations) = %d, want 3", len(out.Recommendations))
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != exitOK {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "usage: recommend") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}
