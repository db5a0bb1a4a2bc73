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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// The target documents belong to the proxy, not to us. Each document
// type below decodes the whole file into a generic tree, replaces
// exactly one subtree, and re-serializes everything else untouched.
// No part of the proxy's schema is validated beyond the path we edit.

// InboundDocument is a parsed inbound config whose first inbound's
// clients list we own.
type InboundDocument struct {
	root     map[string]any
	settings map[string]any
}

// ParseInboundDocument decodes an inbound target document and locates
// inbounds[0].settings. Comments and trailing commas are tolerated on
// read; output is plain JSON. A document without that path fails with
// ErrMalformedDocument before anything is written.
func ParseInboundDocument(data []byte) (*InboundDocument, error) {
	root, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: inbound document: %v", ErrMalformedDocument, err)
	}
	inbounds, ok := root["inbounds"].([]any)
	if !ok || len(inbounds) == 0 {
		return nil, fmt.Errorf("%w: inbound document has no \"inbounds\" list", ErrMalformedDocument)
	}
	first, ok := inbounds[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: first inbound is not an object", ErrMalformedDocument)
	}
	settings, ok := first["settings"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: first inbound has no \"settings\" object", ErrMalformedDocument)
	}
	return &InboundDocument{root: root, settings: settings}, nil
}

// ExistingFlow returns the flow of the first existing client entry, if
// the document has one. Used to inherit an operator-chosen flow instead
// of resetting it to the default on every run. An empty flow counts as
// absent, so the caller falls back to the default rather than stamping
// "" onto every client.
func (d *InboundDocument) ExistingFlow() (string, bool) {
	clients, ok := d.settings["clients"].([]any)
	if !ok || len(clients) == 0 {
		return "", false
	}
	first, ok := clients[0].(map[string]any)
	if !ok {
		return "", false
	}
	flow, ok := first["flow"].(string)
	if !ok || flow == "" {
		return "", false
	}
	return flow, true
}

// SetClients replaces the owned clients list. Every other field of the
// document, including sibling settings keys, is left alone.
func (d *InboundDocument) SetClients(clients []ClientRecord) {
	d.settings["clients"] = clients
}

// Encode re-serializes the document with two-space indentation.
func (d *InboundDocument) Encode() ([]byte, error) {
	return encodeDocument(d.root)
}

// RoutingDocument is a parsed routing config whose user-keyed rules we
// own.
type RoutingDocument struct {
	root    map[string]any
	routing map[string]any
}

// ParseRoutingDocument decodes a routing target document and locates
// routing.rules.
func ParseRoutingDocument(data []byte) (*RoutingDocument, error) {
	root, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: routing document: %v", ErrMalformedDocument, err)
	}
	routing, ok := root["routing"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: routing document has no \"routing\" object", ErrMalformedDocument)
	}
	if _, ok := routing["rules"].([]any); !ok {
		return nil, fmt.Errorf("%w: routing document has no \"rules\" list", ErrMalformedDocument)
	}
	return &RoutingDocument{root: root, routing: routing}, nil
}

// ReplaceUserRules drops every rule this system owns and appends the
// freshly synthesized ones, preserving all operator-authored rules and
// their relative order ahead of ours.
//
// Ownership is structural: a rule whose key set is exactly
// {"user", "outboundTag"} is ours, regardless of content. An operator
// rule with exactly those two keys and nothing else would be discarded
// too; add any third key (even a comment field) to such a rule to keep
// it out of our hands.
func (d *RoutingDocument) ReplaceUserRules(rules []RoutingRule) {
	existing := d.routing["rules"].([]any)
	merged := make([]any, 0, len(existing)+len(rules))
	for _, raw := range existing {
		if rule, ok := raw.(map[string]any); ok && isUserRule(rule) {
			continue
		}
		merged = append(merged, raw)
	}
	for _, rule := range rules {
		merged = append(merged, rule)
	}
	d.routing["rules"] = merged
}

// Encode re-serializes the document with two-space indentation.
func (d *RoutingDocument) Encode() ([]byte, error) {
	return encodeDocument(d.root)
}

// isUserRule reports whether a rule's key set is exactly
// {"user", "outboundTag"}.
func isUserRule(rule map[string]any) bool {
	if len(rule) != 2 {
		return false
	}
	_, hasUser := rule["user"]
	_, hasTag := rule["outboundTag"]
	return hasUser && hasTag
}

// decodeObject parses a JSONC document into a generic object tree.
// Numbers decode as json.Number so integers beyond float64's exact
// range survive the round trip unchanged.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return root, nil
}

// encodeDocument serializes a document tree as indented JSON without
// escaping HTML characters, so URLs and domain patterns survive as
// written.
func encodeDocument(root map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
