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
	"path/filepath"
)

// CurrentSchemaVersion is written to every saved database. Databases
// written by earlier tooling carry no version field; they decode as
// version 0 and are upgraded in place on the next save.
const CurrentSchemaVersion = 1

// Registry is the ordered store of entity users, backed by a single
// JSON database file. Order is insertion order and doubles as the
// display order every index-taking operation refers to.
//
// Every mutating operation re-persists the whole database before
// returning; there is no partial write. A failed save surfaces the
// storage error and leaves the in-memory state as mutated, so callers
// should treat any error from a mutation as fatal for the session.
type Registry struct {
	path  string
	users []User
}

// database is the on-disk shape of the registry.
type database struct {
	Version int    `json:"version"`
	Users   []User `json:"users"`
}

// OpenRegistry loads the database at path, or initializes an empty
// registry if no file exists yet. The file must be a JSON object with a
// "users" list.
func OpenRegistry(path string) (*Registry, error) {
	r := &Registry{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user database: %w", err)
	}

	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: user database: %v", ErrMalformedDocument, err)
	}
	r.users = db.Users
	return r, nil
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// Len returns the number of users.
func (r *Registry) Len() int {
	return len(r.users)
}

// Users returns a copy of the user list in display order.
func (r *Registry) Users() []User {
	out := make([]User, len(r.users))
	copy(out, r.users)
	return out
}

// User returns the user at index.
func (r *Registry) User(index int) (User, error) {
	if index < 0 || index >= len(r.users) {
		return User{}, fmt.Errorf("%w: %d (have %d users)", ErrIndexOutOfRange, index, len(r.users))
	}
	return r.users[index], nil
}

// Add creates a new entity user with a freshly generated secret and
// appends it to the registry. Username must be non-empty; no uniqueness
// check is made, duplicate usernames are the operator's responsibility.
func (r *Registry) Add(username string, outlets []string) (User, error) {
	if username == "" {
		return User{}, ErrEmptyUsername
	}
	secret, err := NewSecret()
	if err != nil {
		return User{}, err
	}
	user := User{
		Username: username,
		Secret:   secret,
		Outlets:  dedupe(outlets),
	}
	r.users = append(r.users, user)
	if err := r.save(); err != nil {
		return User{}, err
	}
	return user, nil
}

// Edit replaces the outlet set of the user at index. Username and
// secret are immutable once created.
func (r *Registry) Edit(index int, outlets []string) error {
	if index < 0 || index >= len(r.users) {
		return fmt.Errorf("%w: %d (have %d users)", ErrIndexOutOfRange, index, len(r.users))
	}
	r.users[index].Outlets = dedupe(outlets)
	return r.save()
}

// Delete removes the user at index.
func (r *Registry) Delete(index int) error {
	if index < 0 || index >= len(r.users) {
		return fmt.Errorf("%w: %d (have %d users)", ErrIndexOutOfRange, index, len(r.users))
	}
	r.users = append(r.users[:index], r.users[index+1:]...)
	return r.save()
}

// CleanInvalidOutlets removes every outlet reference that is no longer
// present in the catalog, preserving the relative order of surviving
// outlets. It returns whether any user actually changed; when nothing
// changed the database is not rewritten.
//
// The operation is idempotent: a second run against the same catalog is
// always a no-op.
func (r *Registry) CleanInvalidOutlets(catalog *Catalog) (bool, error) {
	if catalog.Empty() {
		return false, ErrCatalogNotLoaded
	}

	changed := false
	for i := range r.users {
		kept := r.users[i].Outlets[:0:0]
		for _, tag := range r.users[i].Outlets {
			if catalog.Contains(tag) {
				kept = append(kept, tag)
			}
		}
		if len(kept) != len(r.users[i].Outlets) {
			r.users[i].Outlets = kept
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	return true, r.save()
}

// save rewrites the whole database in one atomic serialize-and-write.
func (r *Registry) save() error {
	db := database{
		Version: CurrentSchemaVersion,
		Users:   r.users,
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user database: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write user database: %w", err)
	}
	return nil
}

// dedupe drops repeated tags while preserving first-seen order. Outlet
// tags are unique within a single user by invariant.
func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
