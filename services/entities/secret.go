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
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// secretAlphabet is the character set for generated secrets.
	secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// secretLength is the number of random characters in a secret,
	// excluding the trailing separator.
	secretLength = 20

	// secretSeparator terminates every secret so that the derived
	// client id (secret + outlet tag) stays visually splittable.
	secretSeparator = "-"
)

// NewSecret generates the long-lived credential for a new entity user:
// 20 random lowercase-alphanumeric characters plus a trailing "-".
//
// The secret is generated once at creation time and never rotated. With
// 36^20 possible values no uniqueness check is performed; collisions are
// negligible for any realistic user count.
func NewSecret() (string, error) {
	buf := make([]byte, secretLength, secretLength+1)
	max := big.NewInt(int64(len(secretAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = secretAlphabet[n.Int64()]
	}
	return string(buf) + secretSeparator, nil
}
