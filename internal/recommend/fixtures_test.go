// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/tomtom215/pigment/internal/catalog"
)

// Cluster palettes for the fixtures: a warm red and a cool blue.
var (
	warmCenter = catalog.Palette{40, 40, 200, 0, 200, 200, 45, 60, 40}
	coolCenter = catalog.Palette{200, 60, 30, 220, 180, 200, 30, 10, -50}
)

// color builds a taste colour at the given palette.
func color(p catalog.Palette, weight float64) Color {
	return Color{
		BGR:    [3]float64{p[0], p[1], p[2]},
		HSV:    [3]float64{p[3], p[4], p[5]},
		LAB:    [3]float64{p[6], p[7], p[8]},
		Weight: weight,
	}
}

// twoClusterSignal puts the first two colours near the warm center and the
// remaining three near the cool one, weighted 0.4, 0.3, 0.1, 0.1, 0.1.
func twoClusterSignal() TasteSignal {
	return TasteSignal{
		color(warmCenter, 0.4),
		color(catalog.Palette{45, 38, 190, 5, 190, 195, 44, 58, 38}, 0.3),
		color(coolCenter, 0.1),
		color(catalog.Palette{190, 70, 40, 215, 170, 190, 32, 12, -45}, 0.1),
		color(catalog.Palette{210, 50, 20, 225, 185, 210, 28, 8, -55}, 0.1),
	}
}

func testCenters() []catalog.ClusterCenter {
	return []catalog.ClusterCenter{
		{ClusterID: 1, Feature: warmCenter},
		{ClusterID: 2, Feature: coolCenter},
	}
}

// randomCatalog builds n items with random features split over clusters 1 and 2.
func randomCatalog(t *testing.T, n int, seed int64) *catalog.Catalog {
	t.Helper()

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	items := make([]catalog.Item, n)
	for i := range items {
		var v catalog.Vector
		for d := range v {
			v[d] = rng.Float64() * 200
		}
		items[i] = catalog.Item{
			ID:        fmt.Sprintf("%d.jpg", i),
			ClusterID: 1 + i%2,
			ImageURL:  fmt.Sprintf("https://img.example/%d.jpg", i),
			PageURL:   fmt.Sprintf("https://artsandculture.google.com/asset/painting-%d-artist-%d/ID%d", i, i%7, i),
			Features:  v,
		}
	}

	cat, err := catalog.New(testCenters(), items)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}
