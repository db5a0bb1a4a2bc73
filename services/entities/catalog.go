// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package entities

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// sinkProtocol is the Xray protocol that discards traffic. Outbounds
// using it are never valid egress targets for entity users.
const sinkProtocol = "blackhole"

// Catalog is the authoritative set of valid outlet tags, loaded from an
// Xray outbounds document. It preserves document order and is replaced
// wholesale on every load.
type Catalog struct {
	tags []string
	seen map[string]struct{}
}

// outboundsDocument mirrors the slice of the outbounds config we read.
// Only tag and protocol matter; everything else is the proxy's business.
type outboundsDocument struct {
	Outbounds []struct {
		Tag      string `json:"tag"`
		Protocol string `json:"protocol"`
	} `json:"outbounds"`
}

// LoadCatalog parses an outbounds document and returns the catalog of
// outlet tags whose protocol is not blackhole. The document may carry
// comments and trailing commas (Xray accepts JSONC); they are stripped
// before decoding.
//
// A document without an "outbounds" array is rejected with
// ErrMalformedDocument.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc outboundsDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: outbounds document: %v", ErrMalformedDocument, err)
	}
	if doc.Outbounds == nil {
		return nil, fmt.Errorf("%w: outbounds document has no \"outbounds\" list", ErrMalformedDocument)
	}

	cat := &Catalog{seen: make(map[string]struct{})}
	for _, ob := range doc.Outbounds {
		if ob.Protocol == sinkProtocol {
			continue
		}
		cat.tags = append(cat.tags, ob.Tag)
		cat.seen[ob.Tag] = struct{}{}
	}
	return cat, nil
}

// LoadCatalogFile reads and parses the outbounds document at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outbounds document: %w", err)
	}
	return LoadCatalog(data)
}

// Tags returns the outlet tags in document order. The returned slice is
// a copy; mutating it does not affect the catalog.
func (c *Catalog) Tags() []string {
	out := make([]string, len(c.tags))
	copy(out, c.tags)
	return out
}

// Contains reports whether tag is a valid outlet.
func (c *Catalog) Contains(tag string) bool {
	_, ok := c.seen[tag]
	return ok
}

// Len returns the number of outlets in the catalog.
func (c *Catalog) Len() int {
	return len(c.tags)
}

// Empty reports whether the catalog holds no outlets. A nil catalog is
// empty.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.tags) == 0
}
