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

import "errors"

// Sentinel errors for the entities package.
var (
	// ErrCatalogNotLoaded indicates an operation that needs outlet
	// definitions ran before any outbounds document was loaded.
	ErrCatalogNotLoaded = errors.New("outlet catalog not loaded")

	// ErrMalformedDocument indicates a JSON document is missing the
	// nested structure this package expects to edit or read.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrEmptyUsername indicates an attempt to add a user without a name.
	ErrEmptyUsername = errors.New("empty username")

	// ErrIndexOutOfRange indicates a user index that does not exist in
	// the registry. Callers must pass indices from the current listing.
	ErrIndexOutOfRange = errors.New("user index out of range")
)
