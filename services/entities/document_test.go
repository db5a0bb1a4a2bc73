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
	"testing"

	"github.com/stretchr/testify/require"
)

const visionDoc = `{
	"log": {"loglevel": "warning"},
	"inbounds": [
		{
			"port": 443,
			"protocol": "vless",
			"settings": {
				"clients": [
					{"id": "old-tokyo", "email": "tokyo@old.local", "flow": "xtls-rprx-vision-udp443"}
				],
				"decryption": "none"
			},
			"streamSettings": {"network": "tcp"}
		},
		{"port": 8080, "protocol": "http"}
	]
}`

func TestParseInboundDocument_ExistingFlow(t *testing.T) {
	doc, err := ParseInboundDocument([]byte(visionDoc))
	require.NoError(t, err)

	flow, ok := doc.ExistingFlow()
	require.True(t, ok)
	require.Equal(t, "xtls-rprx-vision-udp443", flow)
}

func TestInboundDocument_ExistingFlow_Absent(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no clients", `{"inbounds": [{"settings": {"decryption": "none"}}]}`},
		{"empty clients", `{"inbounds": [{"settings": {"clients": []}}]}`},
		{"client without flow", `{"inbounds": [{"settings": {"clients": [{"id": "x"}]}}]}`},
		{"client with empty flow", `{"inbounds": [{"settings": {"clients": [{"id": "x", "flow": ""}]}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := ParseInboundDocument([]byte(tc.doc))
			require.NoError(t, err)
			_, ok := doc.ExistingFlow()
			require.False(t, ok)
		})
	}
}

func TestInboundDocument_SetClientsPreservesSiblings(t *testing.T) {
	doc, err := ParseInboundDocument([]byte(visionDoc))
	require.NoError(t, err)

	doc.SetClients([]ClientRecord{
		{ID: "new-tokyo", Email: "tokyo@alice.local", Flow: "xtls-rprx-vision"},
	})

	out, err := doc.Encode()
	require.NoError(t, err)

	var reparsed map[string]any
	require.NoError(t, json.Unmarshal(out, &reparsed))

	// Untouched top-level key survives.
	require.Contains(t, reparsed, "log")

	inbounds := reparsed["inbounds"].([]any)
	require.Len(t, inbounds, 2, "second inbound must survive")

	first := inbounds[0].(map[string]any)
	require.Equal(t, float64(443), first["port"])
	require.Contains(t, first, "streamSettings")

	settings := first["settings"].(map[string]any)
	require.Equal(t, "none", settings["decryption"], "sibling settings key must survive")

	clients := settings["clients"].([]any)
	require.Len(t, clients, 1)
	entry := clients[0].(map[string]any)
	require.Equal(t, "new-tokyo", entry["id"])
	require.Equal(t, "xtls-rprx-vision", entry["flow"])
}

func TestParseInboundDocument_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no inbounds", `{"log": {}}`},
		{"empty inbounds", `{"inbounds": []}`},
		{"no settings", `{"inbounds": [{"port": 443}]}`},
		{"settings wrong type", `{"inbounds": [{"settings": "x"}]}`},
		{"not an object", `[1, 2, 3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseInboundDocument([]byte(tc.doc))
			require.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

const routingDoc = `{
	"routing": {
		"domainStrategy": "IPIfNonMatch",
		"rules": [
			{"domain": ["example.com"], "outboundTag": "direct"},
			{"user": ["old@x.local"], "outboundTag": "tokyo"},
			{"user": ["keep@x.local"], "outboundTag": "tokyo", "note": "hand-written"}
		]
	}
}`

func TestRoutingDocument_ReplaceUserRules(t *testing.T) {
	doc, err := ParseRoutingDocument([]byte(routingDoc))
	require.NoError(t, err)

	doc.ReplaceUserRules([]RoutingRule{
		{User: []string{"tokyo@alice.local"}, OutboundTag: "tokyo"},
		{User: []string{"osaka@alice.local"}, OutboundTag: "osaka"},
	})

	out, err := doc.Encode()
	require.NoError(t, err)

	var reparsed struct {
		Routing struct {
			DomainStrategy string           `json:"domainStrategy"`
			Rules          []map[string]any `json:"rules"`
		} `json:"routing"`
	}
	require.NoError(t, json.Unmarshal(out, &reparsed))

	require.Equal(t, "IPIfNonMatch", reparsed.Routing.DomainStrategy)
	require.Len(t, reparsed.Routing.Rules, 4)

	// Static rule first, then the three-key rule we do not own, then the
	// synthesized rules in first-seen outlet order. The stale two-key
	// rule is gone.
	require.Equal(t, []any{"example.com"}, reparsed.Routing.Rules[0]["domain"])
	require.Equal(t, "hand-written", reparsed.Routing.Rules[1]["note"])
	require.Equal(t, []any{"tokyo@alice.local"}, reparsed.Routing.Rules[2]["user"])
	require.Equal(t, "tokyo", reparsed.Routing.Rules[2]["outboundTag"])
	require.Equal(t, "osaka", reparsed.Routing.Rules[3]["outboundTag"])
}

func TestRoutingDocument_ReplaceWithNoUsers(t *testing.T) {
	doc, err := ParseRoutingDocument([]byte(routingDoc))
	require.NoError(t, err)

	doc.ReplaceUserRules(nil)

	out, err := doc.Encode()
	require.NoError(t, err)

	var reparsed struct {
		Routing struct {
			Rules []map[string]any `json:"rules"`
		} `json:"routing"`
	}
	require.NoError(t, json.Unmarshal(out, &reparsed))
	require.Len(t, reparsed.Routing.Rules, 2, "only non-owned rules remain")
}

func TestRoutingDocument_PreservesLargeIntegers(t *testing.T) {
	// Integers above 2^53 lose precision through float64; fields we do
	// not own must come back exactly as written.
	doc, err := ParseRoutingDocument([]byte(`{
		"routing": {
			"big": 9007199254740993,
			"rules": [
				{"user": ["stale@x.local"], "outboundTag": "gone"}
			]
		}
	}`))
	require.NoError(t, err)

	doc.ReplaceUserRules(nil)

	out, err := doc.Encode()
	require.NoError(t, err)
	require.Contains(t, string(out), "9007199254740993")
}

func TestInboundDocument_PreservesLargeIntegers(t *testing.T) {
	doc, err := ParseInboundDocument([]byte(`{
		"inbounds": [
			{"port": 443, "quota": 9007199254740993, "settings": {"clients": []}}
		]
	}`))
	require.NoError(t, err)

	doc.SetClients([]ClientRecord{{ID: "s-tokyo", Email: "tokyo@a.local"}})

	out, err := doc.Encode()
	require.NoError(t, err)
	require.Contains(t, string(out), "9007199254740993")
	require.Contains(t, string(out), `"port": 443`)
}

func TestParseRoutingDocument_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no routing", `{"log": {}}`},
		{"no rules", `{"routing": {"domainStrategy": "AsIs"}}`},
		{"rules wrong type", `{"routing": {"rules": {}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRoutingDocument([]byte(tc.doc))
			require.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestIsUserRule(t *testing.T) {
	cases := []struct {
		name string
		rule map[string]any
		want bool
	}{
		{"owned", map[string]any{"user": []any{}, "outboundTag": "x"}, true},
		{"owned regardless of content", map[string]any{"user": "not-a-list", "outboundTag": 7}, true},
		{"extra key", map[string]any{"user": []any{}, "outboundTag": "x", "note": "keep"}, false},
		{"different keys", map[string]any{"domain": []any{}, "outboundTag": "x"}, false},
		{"single key", map[string]any{"outboundTag": "x"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, isUserRule(tc.rule))
		})
	}
}
