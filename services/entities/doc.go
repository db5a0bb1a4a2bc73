// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package entities maintains the entity-user database for an Xray deployment
and regenerates the user-owned fragments of its configuration documents.

An entity user is a logical subscriber with a generated long-lived secret
and a set of named egress outlets. From that relation the package derives
per-(user, outlet) protocol credentials and per-outlet routing rules, and
splices them into three independently-owned JSON documents:

  - the VLESS/Vision inbound (clients list, with flow)
  - the XHTTP inbound (clients list, no flow)
  - the routing document (user-keyed rules)

# Architecture

	┌──────────┐   ┌──────────┐
	│ Catalog  │   │ Registry │  authoritative state
	└────┬─────┘   └────┬─────┘
	     │              │
	     └──────┬───────┘
	            ▼
	      synthesize.go          pure derivation
	            │
	            ▼
	      document.go            selective subtree replacement
	            │
	            ▼
	      generate.go            read → transform → write per document

The Registry and Catalog are plain values handed to operations; the
package keeps no ambient state. Everything outside the owned subtrees of
the target documents is preserved across a generate run.

# Thread Safety

The package is written for a single in-process actor. No type here is
safe for concurrent mutation, and no protection exists against two
processes editing the same database or target documents.
*/
package entities
