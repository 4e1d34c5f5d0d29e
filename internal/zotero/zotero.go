// Package zotero extracts the user's collection from a Zotero JSON export.
//
// The export comes in three shapes: a bare array of items, a wrapper object
// with an "items" array, or a single bare item object. All three are resolved
// by one decode function at the boundary; the rest of the pipeline only ever
// sees a flat item list.
package zotero

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matsen/citegraph/internal/doi"
)

// Item is a single entry from a Zotero export. Newer exports nest the item
// metadata under "data"; older ones keep it at the top level. encoding/json
// matches field names case-insensitively, so the "DOI" tag also picks up
// exports that spell the key "doi".
type Item struct {
	DOI  string `json:"DOI"`
	Data *struct {
		DOI string `json:"DOI"`
	} `json:"data"`
}

// rawDOI returns the item's DOI field as exported, preferring the nested
// "data" form over the top-level one.
func (it Item) rawDOI() string {
	if it.Data != nil && it.Data.DOI != "" {
		return it.Data.DOI
	}
	return it.DOI
}

// DecodeItems decodes a Zotero export into a flat item list, accepting any of
// the three export shapes.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapper struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parsing Zotero export: %w", err)
	}

	if len(wrapper.Items) > 0 {
		if err := json.Unmarshal(wrapper.Items, &items); err != nil {
			return nil, fmt.Errorf("parsing Zotero export items: %w", err)
		}
		return items, nil
	}

	// Fallback: treat the object itself as one item.
	var single Item
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing Zotero export: %w", err)
	}
	return []Item{single}, nil
}

// ExtractDOIs returns the sorted, deduplicated canonical DOIs found in a
// Zotero export. Items without a resolvable DOI are skipped; that is normal
// for notes, attachments, and works without a DOI, not an error.
func ExtractDOIs(data []byte) ([]string, error) {
	items, err := DecodeItems(data)
	if err != nil {
		return nil, err
	}

	seen := mapset.NewSet[string]()
	for _, it := range items {
		if d := doi.Canonical(it.rawDOI()); d != "" {
			seen.Add(d)
		}
	}

	dois := seen.ToSlice()
	sort.Strings(dois)
	return dois, nil
}

// ExtractFile reads a Zotero export file and extracts its DOIs.
func ExtractFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading Zotero export: %w", err)
	}
	return ExtractDOIs(data)
}
