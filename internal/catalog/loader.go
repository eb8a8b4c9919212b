// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PaletteColumns are the mean channel columns, in Palette order.
var PaletteColumns = []string{
	"b_bgr_mean", "g_bgr_mean", "r_bgr_mean",
	"h_hsv_mean", "s_hsv_mean", "v_hsv_mean",
	"l_lab_mean", "a_lab_mean", "b_lab_mean",
}

// FeatureColumns are the item feature columns, in Vector order.
var FeatureColumns = []string{
	"b_bgr_mean", "g_bgr_mean", "r_bgr_mean",
	"h_hsv_mean", "s_hsv_mean", "v_hsv_mean",
	"l_lab_mean", "a_lab_mean", "b_lab_mean",
	"b_bgr_std", "g_bgr_std", "r_bgr_std",
	"h_hsv_std", "s_hsv_std", "v_hsv_std",
	"l_lab_std", "a_lab_std", "b_lab_std",
}

// Required non-feature columns.
const (
	colClusterID = "cluster_id"
	colFilename  = "filename"
	colPage      = "page"
	colImage     = "image"
)

// Load reads the cluster palette file and the item file and builds a Catalog.
func Load(palettesPath, itemsPath string) (*Catalog, error) {
	centers, err := loadFile(palettesPath, LoadClusterCenters)
	if err != nil {
		return nil, err
	}

	items, err := loadFile(itemsPath, LoadItems)
	if err != nil {
		return nil, err
	}

	return New(centers, items)
}

// loadFile opens path and decodes it with parse.
func loadFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// LoadClusterCenters parses a cluster palette CSV.
func LoadClusterCenters(r io.Reader) ([]ClusterCenter, error) {
	tbl, err := newTable(r, append([]string{colClusterID}, PaletteColumns...))
	if err != nil {
		return nil, err
	}

	var centers []ClusterCenter
	for {
		rec, line, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var c ClusterCenter
		if c.ClusterID, err = tbl.integer(rec, line, colClusterID); err != nil {
			return nil, err
		}
		for i, col := range PaletteColumns {
			if c.Feature[i], err = tbl.number(rec, line, col); err != nil {
				return nil, err
			}
		}
		centers = append(centers, c)
	}

	if len(centers) == 0 {
		return nil, ErrNoClusters
	}
	return centers, nil
}

// LoadItems parses an item CSV with cluster assignments.
func LoadItems(r io.Reader) ([]Item, error) {
	required := append([]string{colFilename, colClusterID, colPage, colImage}, FeatureColumns...)
	tbl, err := newTable(r, required)
	if err != nil {
		return nil, err
	}

	var items []Item
	for {
		rec, line, err := tbl.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		item := Item{
			ID:       tbl.str(rec, colFilename),
			PageURL:  tbl.str(rec, colPage),
			ImageURL: tbl.str(rec, colImage),
		}
		if item.ID == "" {
			return nil, fmt.Errorf("line %d: empty %s", line, colFilename)
		}
		if item.ClusterID, err = tbl.integer(rec, line, colClusterID); err != nil {
			return nil, err
		}
		for i, col := range FeatureColumns {
			if item.Features[i], err = tbl.number(rec, line, col); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return items, nil
}

// table is a header-indexed CSV reader.
type table struct {
	r    *csv.Reader
	cols map[string]int
}

func newTable(r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	return &table{r: cr, cols: cols}, nil
}

// next returns the next record and its 1-based line number.
func (t *table) next() ([]string, int, error) {
	rec, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, 0, fmt.Errorf("read record: %w", err)
	}
	line, _ := t.r.FieldPos(0)
	return rec, line, nil
}

func (t *table) str(rec []string, col string) string {
	return strings.TrimSpace(rec[t.cols[col]])
}

func (t *table) number(rec []string, line int, col string) (float64, error) {
	v, err := strconv.ParseFloat(t.str(rec, col), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: column %s: %w", line, col, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("line %d: column %s: %w: %q", line, col, ErrNonFinite, t.str(rec, col))
	}
	return v, nil
}

func (t *table) integer(rec []string, line int, col string) (int, error) {
	s := t.str(rec, col)
	v, err := strconv.Atoi(s)
	if err == nil {
		return v, nil
	}
	// Cluster ids exported from dataframes may carry a trailing ".0".
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("line %d: column %s: %w", line, col, err)
	}
	return int(f), nil
}
