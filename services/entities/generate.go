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
	"fmt"
	"os"
)

// Targets names the three documents a generate run rewrites. Each path
// is both read from and written back to; nothing is inferred.
type Targets struct {
	// Vision is the VLESS/Vision inbound config.
	Vision string

	// Stream is the XHTTP inbound config.
	Stream string

	// Routing is the routing rules config.
	Routing string
}

// GenerateOptions tunes a generate run.
type GenerateOptions struct {
	// Backup, when set, is called with each target path immediately
	// before its overwrite and returns the backup location (or "" when
	// there was nothing to back up). A backup error aborts the run
	// before that document is written.
	Backup func(path string) (string, error)
}

// GenerateResult reports what a run produced.
type GenerateResult struct {
	// Flow is the flow value applied to Vision clients, inherited from
	// the target document or DefaultVisionFlow.
	Flow string

	// VisionClients, StreamClients and RoutingRules count the
	// synthesized records per document.
	VisionClients int
	StreamClients int
	RoutingRules  int

	// Backups lists the backup files created, in write order.
	Backups []string
}

// Generate recomputes the derived records from the registry and splices
// them into the three target documents, one read-transform-write pass
// per document.
//
// Each document either fails before its write (malformed structure,
// read error) or is committed in one overwrite. Documents are processed
// Vision, Stream, Routing; a failure does not roll back documents
// already written.
func Generate(reg *Registry, targets Targets, opts GenerateOptions) (*GenerateResult, error) {
	users := reg.Users()
	result := &GenerateResult{}

	// Vision inbound: resolve the flow from the existing document once,
	// then apply it to every synthesized client.
	visionDoc, err := readInbound(targets.Vision)
	if err != nil {
		return nil, err
	}
	flow, ok := visionDoc.ExistingFlow()
	if !ok {
		flow = DefaultVisionFlow
	}
	result.Flow = flow

	visionClients := VisionClients(users, flow)
	visionDoc.SetClients(visionClients)
	result.VisionClients = len(visionClients)
	if err := writeDocument(targets.Vision, visionDoc.Encode, opts, result); err != nil {
		return nil, err
	}

	// Stream inbound: same derivation, no flow.
	streamDoc, err := readInbound(targets.Stream)
	if err != nil {
		return nil, err
	}
	streamClients := StreamClients(users)
	streamDoc.SetClients(streamClients)
	result.StreamClients = len(streamClients)
	if err := writeDocument(targets.Stream, streamDoc.Encode, opts, result); err != nil {
		return nil, err
	}

	// Routing: regenerate our rules, keep everything else.
	routingData, err := os.ReadFile(targets.Routing)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", targets.Routing, err)
	}
	routingDoc, err := ParseRoutingDocument(routingData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", targets.Routing, err)
	}
	rules := RoutingRules(users)
	routingDoc.ReplaceUserRules(rules)
	result.RoutingRules = len(rules)
	if err := writeDocument(targets.Routing, routingDoc.Encode, opts, result); err != nil {
		return nil, err
	}

	return result, nil
}

func readInbound(path string) (*InboundDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := ParseInboundDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeDocument(path string, encode func() ([]byte, error), opts GenerateOptions, result *GenerateResult) error {
	data, err := encode()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if opts.Backup != nil {
		backupPath, err := opts.Backup(path)
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", path, err)
		}
		if backupPath != "" {
			result.Backups = append(result.Backups, backupPath)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
