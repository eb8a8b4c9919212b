// Pigment - Painting Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pigment

package recommend

import (
	"strings"
)

const (
	// UnknownArtist is shown when the artist cannot be parsed.
	UnknownArtist = "Unknown Artist"

	// UnknownTitle is shown when the title cannot be parsed.
	UnknownTitle = "Unknown Title"

	artsHost    = "artsandculture.google.com"
	assetMarker = "/asset/"
)

// ParseArtistTitle derives display metadata from a Google Arts & Culture page
// URL such as https://artsandculture.google.com/asset/the-lovers-marc-chagall/jQEveVgIzd6-Og.
//
// The slug is split on hyphens. With three or more words the last two are the
// artist; with two, the last one is. A one-word slug is a title with an
// unknown artist. Multi-word surnames and single-word titles are misattributed,
// so the result is display text only.
func ParseArtistTitle(pageURL string) (artist, title string) {
	if pageURL == "" || !strings.Contains(pageURL, artsHost) {
		return UnknownArtist, UnknownTitle
	}
	idx := strings.LastIndex(pageURL, assetMarker)
	if idx < 0 {
		return UnknownArtist, UnknownTitle
	}

	slug := pageURL[idx+len(assetMarker):]
	if end := strings.IndexByte(slug, '/'); end >= 0 {
		slug = slug[:end]
	}

	parts := strings.Split(slug, "-")
	if len(parts) < 2 {
		title = titleCase(parts)
		if title == "" {
			title = UnknownTitle
		}
		return UnknownArtist, title
	}

	split := len(parts) - 1
	if len(parts) >= 3 {
		split = len(parts) - 2
	}
	title = titleCase(parts[:split])
	artist = titleCase(parts[split:])
	if title == "" {
		title = UnknownTitle
	}
	if artist == "" {
		artist = UnknownArtist
	}
	return artist, title
}

// titleCase upper-cases the first letter of each word, lower-cases the rest,
// and joins the words with spaces.
func titleCase(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		out[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.TrimSpace(strings.Join(out, " "))
}

// FormatSlate converts reranked items into output recommendations.
func FormatSlate(items []ScoredItem) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for i := range items {
		it := &items[i]
		artist, title := it.Artist, it.Title
		if artist == "" && title == "" {
			artist, title = ParseArtistTitle(it.Item.PageURL)
		}
		out = append(out, Recommendation{
			ImageURL:  it.Item.ImageURL,
			PageURL:   it.Item.PageURL,
			Artist:    artist,
			Title:     title,
			ClusterID: it.Item.ClusterID,
			ItemID:    it.Item.ID,
			Score:     it.Score,
		})
	}
	return out
}
