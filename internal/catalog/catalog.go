// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package catalog

import (
	"errors"
	"fmt"
)

// Dimensions of the colour feature space.
const (
	// PaletteDims is the number of mean channels (bgr, hsv, lab).
	PaletteDims = 9

	// FeatureDims is the full item feature size: 9 means then 9 spreads.
	FeatureDims = 2 * PaletteDims
)

var (
	// ErrEmptyCatalog is returned when a catalog would contain no items.
	ErrEmptyCatalog = errors.New("catalog: no items")

	// ErrNoClusters is returned when no cluster centers are supplied.
	ErrNoClusters = errors.New("catalog: no cluster centers")

	// ErrDuplicateItem is returned when two items share an ID.
	ErrDuplicateItem = errors.New("catalog: duplicate item id")

	// ErrNonFinite is returned when a numeric column holds NaN or Inf.
	ErrNonFinite = errors.New("catalog: non-finite value")
)

// Palette is a 9-dimensional mean colour: b,g,r, h,s,v, l,a,b.
type Palette [PaletteDims]float64

// Vector is an 18-dimensional colour feature: a Palette of channel means
// followed by the per-channel standard deviations in the same order.
type Vector [FeatureDims]float64

// ClusterCenter is the mean palette of one visual cluster.
type ClusterCenter struct {
	ClusterID int     `json:"cluster_id"`
	Feature   Palette `json:"feature"`
}

// Item is a single painting in the reference catalogue.
type Item struct {
	// ID is the unique item identifier (the source image filename).
	ID string `json:"filename"`

	// ClusterID is the visual cluster the item was assigned to offline.
	ClusterID int `json:"cluster_id"`

	// ImageURL is the display URL of the painting image.
	ImageURL string `json:"url"`

	// PageURL is the reference page describing the painting.
	PageURL string `json:"page"`

	// Features is the 18-dimensional colour profile.
	Features Vector `json:"-"`
}

// Catalog is the immutable, indexed reference catalogue.
type Catalog struct {
	items     []Item
	stability []float64
	byID      map[string]int
	byCluster map[int]int

	centers []ClusterCenter
}

// New builds a catalog from cluster centers and items.
// Item order is preserved and defines tie-breaking in similarity ranking.
func New(centers []ClusterCenter, items []Item) (*Catalog, error) {
	if len(centers) == 0 {
		return nil, ErrNoClusters
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		items:     make([]Item, len(items)),
		stability: make([]float64, len(items)),
		byID:      make(map[string]int, len(items)),
		byCluster: make(map[int]int),
		centers:   make([]ClusterCenter, len(centers)),
	}

	copy(c.centers, centers)
	seen := make(map[int]bool, len(centers))
	for _, center := range c.centers {
		if seen[center.ClusterID] {
			return nil, fmt.Errorf("catalog: duplicate cluster id %d", center.ClusterID)
		}
		seen[center.ClusterID] = true
	}

	copy(c.items, items)
	for i := range c.items {
		item := &c.items[i]
		if item.ID == "" {
			return nil, fmt.Errorf("catalog: item at row %d has empty id", i)
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		c.byID[item.ID] = i
		c.byCluster[item.ClusterID]++
		c.stability[i] = StabilityScore(&item.Features)
	}

	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// At returns the item at row i.
func (c *Catalog) At(i int) *Item {
	return &c.items[i]
}

// Stability returns the precomputed stability score of an item, or
// NeutralStability when the ID is not in the catalogue.
func (c *Catalog) Stability(id string) float64 {
	i, ok := c.byID[id]
	if !ok {
		return NeutralStability
	}
	return c.stability[i]
}

// ClusterSize returns the number of items assigned to a cluster.
func (c *Catalog) ClusterSize(clusterID int) int {
	return c.byCluster[clusterID]
}

// Centers returns the cluster centers in file order. The slice is shared.
func (c *Catalog) Centers() []ClusterCenter {
	return c.centers
}
