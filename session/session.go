// Package session owns the authenticated identity of the portal: who is
// signed in, the sign-in/sign-up/sign-out lifecycle, and persistence of the
// session across process restarts. All session mutation goes through the
// Store; collaborators (navigation, route gating) only read from it.
package session

import (
	"github.com/thedevz43/landrecords/session/snapshot"
	"github.com/thedevz43/landrecords/users"
)

// Result is the structured outcome of a sign-in or sign-up exchange.
// Failures are values, never panics, so callers can render inline messages.
type Result struct {
	OK     bool
	Reason string
}

// Failure reasons surfaced to the caller. Sign-in failures are deliberately
// generic: the store never reveals whether an email exists in the directory.
const (
	ReasonInvalidCredentials = "Invalid email or password"
	ReasonEmailTaken         = "Email already registered"
	ReasonRegistrationFailed = "Registration failed"
)

// Registration is the candidate identity for SignUp. Role defaults to
// citizen when empty; self-registration carries no department fields.
type Registration struct {
	Name    string
	Email   string
	Secret  string
	Role    users.Role
	Aadhaar string
	Phone   string
}

// ProfileUpdate carries the optional fields UpdateProfile may merge into the
// current identity. ID and Role are absent on purpose: they are immutable
// for the lifetime of a session.
type ProfileUpdate struct {
	Name    *string
	Aadhaar *string
	Phone   *string
}

func (p ProfileUpdate) empty() bool {
	return p.Name == nil && p.Aadhaar == nil && p.Phone == nil
}

// Repos holds the external collaborators of the Store.
type Repos struct {
	Directory users.Directory // Identity directory (credential checks, registration)
	Snapshots snapshot.Store  // Persisted session snapshot
}
