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
	"strings"
	"testing"
)

func TestNewSecret_Shape(t *testing.T) {
	secret, err := NewSecret()
	if err != nil {
		t.Fatalf("NewSecret() failed: %v", err)
	}
	if len(secret) != secretLength+1 {
		t.Fatalf("secret length = %d, want %d", len(secret), secretLength+1)
	}
	if !strings.HasSuffix(secret, secretSeparator) {
		t.Errorf("secret %q does not end with %q", secret, secretSeparator)
	}
	for _, c := range secret[:secretLength] {
		if !strings.ContainsRune(secretAlphabet, c) {
			t.Errorf("secret contains %q, outside the alphabet", c)
		}
	}
}

func TestNewSecret_Distinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		secret, err := NewSecret()
		if err != nil {
			t.Fatalf("NewSecret() failed: %v", err)
		}
		if _, dup := seen[secret]; dup {
			t.Fatalf("secret %q generated twice", secret)
		}
		seen[secret] = struct{}{}
	}
}

func TestUser_DerivedValues(t *testing.T) {
	u := User{
		Username: "alice",
		Secret:   "abcdefghij0123456789-",
		Outlets:  []string{"tokyo", "osaka"},
	}

	if got := u.ClientID("tokyo"); got != "abcdefghij0123456789-tokyo" {
		t.Errorf("ClientID = %q, want secret+outlet concatenation", got)
	}
	if got := u.Email("tokyo"); got != "tokyo@alice.local" {
		t.Errorf("Email = %q, want %q", got, "tokyo@alice.local")
	}
}
