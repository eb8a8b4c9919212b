// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

/*
Package catalog holds the static reference data the recommender ranks against.

Two tables are loaded once at startup and never mutated afterwards:

  - Cluster centers: one row per visual cluster, carrying the 9 mean colour
    channels (bgr, hsv, lab) of the cluster palette.
  - Items: one row per painting, carrying its 18-dimensional colour feature
    vector (9 channel means followed by 9 channel spreads), its cluster id,
    and its image and page URLs.

# Layout

Items are stored row-of-struct in file order. New builds an item ID to row
index and per-cluster item counts. Stability scores are precomputed per row
by StabilityScore and looked up by item ID; unknown IDs get NeutralStability.

# Thread Safety

A *Catalog is immutable after New returns and is safe for concurrent reads
without locking. Slices returned by accessors are shared and must not be
modified by callers.

# File Format

Load reads two CSV files with header rows. Columns are located by name, so
extra columns (for example a page index) are ignored. See FeatureColumns for
the feature column order.
*/
package catalog
