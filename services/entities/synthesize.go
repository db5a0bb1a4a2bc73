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

// DefaultVisionFlow is the flow control assigned to synthesized Vision
// clients when the target document has none to inherit.
const DefaultVisionFlow = "xtls-rprx-vision"

// ClientRecord is one synthesized credential entry for an inbound's
// clients list. Flow is set only for the Vision transport.
type ClientRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Flow  string `json:"flow,omitempty"`
}

// RoutingRule binds every email that references an outlet to that
// outlet's outbound tag.
type RoutingRule struct {
	User        []string `json:"user"`
	OutboundTag string   `json:"outboundTag"`
}

// VisionClients synthesizes the clients list for the VLESS/Vision
// inbound: one record per (user, outlet) pair, in registry order then
// per-user outlet order, all carrying the given flow.
//
// Resolve flow once per run with InboundDocument.ExistingFlow before
// calling; the same value applies to every record.
func VisionClients(users []User, flow string) []ClientRecord {
	records := make([]ClientRecord, 0)
	for _, u := range users {
		for _, tag := range u.Outlets {
			records = append(records, ClientRecord{
				ID:    u.ClientID(tag),
				Email: u.Email(tag),
				Flow:  flow,
			})
		}
	}
	return records
}

// StreamClients synthesizes the clients list for the XHTTP inbound.
// Identical iteration and derivation to VisionClients, without a flow.
func StreamClients(users []User) []ClientRecord {
	records := make([]ClientRecord, 0)
	for _, u := range users {
		for _, tag := range u.Outlets {
			records = append(records, ClientRecord{
				ID:    u.ClientID(tag),
				Email: u.Email(tag),
			})
		}
	}
	return records
}

// RoutingRules synthesizes one rule per distinct outlet referenced by
// at least one user, aggregating the emails of every user on that
// outlet. Outlets appear in first-seen order across the registry;
// within a rule, emails keep registry order.
//
// No deduplication is performed: if two user entries share a username
// and an outlet, the email appears twice. That is a property of the
// data model, not a defect here.
func RoutingRules(users []User) []RoutingRule {
	emails := make(map[string][]string)
	var order []string
	for _, u := range users {
		for _, tag := range u.Outlets {
			if _, ok := emails[tag]; !ok {
				order = append(order, tag)
			}
			emails[tag] = append(emails[tag], u.Email(tag))
		}
	}

	rules := make([]RoutingRule, 0, len(order))
	for _, tag := range order {
		rules = append(rules, RoutingRule{
			User:        emails[tag],
			OutboundTag: tag,
		})
	}
	return rules
}
