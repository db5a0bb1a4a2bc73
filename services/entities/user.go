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

// EmailSuffix is the fixed domain suffix appended to every derived
// client email. It namespaces entity users inside the proxy's own
// accounting and is not user data.
const EmailSuffix = "local"

// User is one entity user: a display name, a generated secret, and the
// ordered set of outlet tags the user may egress through.
//
// Username and Secret are immutable once the user is created; only
// Outlets may be edited. Outlet tags are unique within a single user but
// may reference outlets that no longer exist in the catalog; that is
// the condition Registry.CleanInvalidOutlets repairs.
type User struct {
	Username string `json:"username"`

	// Secret is persisted under the key "uuid" for compatibility with
	// databases written by earlier tooling. It is not a RFC 4122 UUID.
	Secret string `json:"uuid"`

	Outlets []string `json:"outlets"`
}

// ClientID derives the protocol credential id for one outlet: the raw
// concatenation of the user's secret and the outlet tag. The secret's
// own trailing separator is the only delimiter.
func (u User) ClientID(outlet string) string {
	return u.Secret + outlet
}

// Email derives the accounting label for one outlet, in the form
// "{outlet}@{username}.local".
func (u User) Email(outlet string) string {
	return outlet + "@" + u.Username + "." + EmailSuffix
}
