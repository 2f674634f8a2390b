/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trust

import (
	"slices"
	"strings"
)

// Identity is a GitHub login. The zero value is the unknown identity.
type Identity struct {
	login string
}

// Unknown is the identity of an author that GitHub could not resolve.
var Unknown = Identity{}

// Login returns the Identity for the given login.
// An empty login yields Unknown.
func Login(login string) Identity {
	return Identity{login: login}
}

// Known reports whether the identity refers to an actual account.
func (i Identity) Known() bool {
	return i.login != ""
}

// String returns the login, or "<unknown>" for the unknown identity.
func (i Identity) String() string {
	if !i.Known() {
		return "<unknown>"
	}
	return i.login
}

// Set is a case-sensitive set of logins.
type Set map[string]struct{}

// NewSet returns a Set holding the given logins. Blank logins are dropped.
func NewSet(logins ...string) Set {
	s := make(Set, len(logins))
	for _, l := range logins {
		s.Add(l)
	}
	return s
}

// ParseSet builds a Set from a comma-separated list, trimming whitespace
// around each entry.
func ParseSet(list string) Set {
	s := Set{}
	for _, l := range strings.Split(list, ",") {
		s.Add(l)
	}
	return s
}

// Add inserts login into the set. Blank logins are ignored so the unknown
// identity can never become a member.
func (s Set) Add(login string) {
	login = strings.TrimSpace(login)
	if login == "" {
		return
	}
	s[login] = struct{}{}
}

// Union returns a new Set containing the members of s and other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for l := range s {
		out[l] = struct{}{}
	}
	for l := range other {
		out[l] = struct{}{}
	}
	return out
}

// Contains reports whether id is a member of the set.
// The unknown identity is never a member.
func (s Set) Contains(id Identity) bool {
	if !id.Known() {
		return false
	}
	_, ok := s[id.login]
	return ok
}

// Logins returns the members in sorted order.
func (s Set) Logins() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// String renders the set as a sorted, comma-separated list.
func (s Set) String() string {
	return strings.Join(s.Logins(), ",")
}
