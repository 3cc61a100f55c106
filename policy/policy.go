// Package policy decides what a role may see and where a session may go. It
// is pure: every decision is a function over immutable tables, with no I/O
// and no failure mode. Unknown resource keys are denied rather than raised,
// since lookups happen on every render and must never crash the UI.
package policy

import (
	"fmt"
	"iter"

	"github.com/thedevz43/landrecords/users"
)

// Entry is one navigation entry of the portal: a display label, a target
// route, an icon reference, and the set of roles permitted to see it.
type Entry struct {
	Key   string
	Label string
	Route string
	Icon  string
	Roles []users.Role
}

// allows reports whether the entry's role set contains role.
func (e Entry) allows(role users.Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Policy answers permission queries over a fixed, ordered navigation catalog.
type Policy struct {
	catalog []Entry
	byKey   map[string]Entry
}

// New builds a Policy over the given catalog. Every entry must carry a
// unique key and a non-empty role set; a key mapped to no roles would be
// unreachable for everyone and is a configuration error.
func New(catalog []Entry) (*Policy, error) {
	byKey := make(map[string]Entry, len(catalog))
	for _, entry := range catalog {
		if entry.Key == "" {
			return nil, fmt.Errorf("catalog entry %q has no key", entry.Label)
		}
		if len(entry.Roles) == 0 {
			return nil, fmt.Errorf("catalog entry %q has an empty role set", entry.Key)
		}
		if _, ok := byKey[entry.Key]; ok {
			return nil, fmt.Errorf("catalog entry %q is duplicated", entry.Key)
		}
		byKey[entry.Key] = entry
	}
	return &Policy{catalog: catalog, byKey: byKey}, nil
}

// Default returns the Policy over the portal's standard navigation catalog.
func Default() *Policy {
	p, err := New(DefaultCatalog())
	if err != nil {
		// The default catalog is a compile-time constant; a bad entry is a
		// programming error caught by the package tests.
		panic(err)
	}
	return p
}

// IsPermitted reports whether role may view the resource identified by key.
// Unknown keys are fail-closed: the answer is false, never an error.
func (p *Policy) IsPermitted(role users.Role, key string) bool {
	entry, ok := p.byKey[key]
	if !ok {
		return false
	}
	return entry.allows(role)
}

// VisibleEntries returns the catalog entries visible to role, in catalog
// order. The sequence is lazy and restartable; ranging over it twice yields
// the same entries.
func (p *Policy) VisibleEntries(role users.Role) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, entry := range p.catalog {
			if !entry.allows(role) {
				continue
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Catalog returns the full ordered catalog.
func (p *Policy) Catalog() []Entry {
	return p.catalog
}

var allRoles = []users.Role{users.RoleCitizen, users.RoleOfficer, users.RoleAdmin}

// DefaultCatalog returns the portal's navigation entries in display order.
func DefaultCatalog() []Entry {
	return []Entry{
		// Citizen entries
		{Key: "dashboard", Label: "Dashboard", Route: "/dashboard", Icon: "home", Roles: allRoles},
		{Key: "my-lands", Label: "My Land Parcels", Route: "/dashboard/my-lands", Icon: "search", Roles: []users.Role{users.RoleCitizen}},
		{Key: "mutation-requests", Label: "Mutation Requests", Route: "/dashboard/mutation", Icon: "file-text", Roles: []users.Role{users.RoleCitizen}},
		{Key: "tax-payments", Label: "Tax Payments", Route: "/dashboard/tax", Icon: "credit-card", Roles: []users.Role{users.RoleCitizen}},
		{Key: "documents", Label: "Documents", Route: "/dashboard/documents", Icon: "upload", Roles: []users.Role{users.RoleCitizen}},

		// Officer entries
		{Key: "pending-applications", Label: "Pending Applications", Route: "/dashboard/pending-applications", Icon: "clipboard-list", Roles: []users.Role{users.RoleOfficer}},
		{Key: "approved-cases", Label: "Approved Cases", Route: "/dashboard/approved", Icon: "check-square", Roles: []users.Role{users.RoleOfficer}},
		{Key: "land-disputes", Label: "Land Disputes", Route: "/dashboard/disputes", Icon: "alert-triangle", Roles: []users.Role{users.RoleOfficer}},
		{Key: "land-search", Label: "Land Search", Route: "/dashboard/search", Icon: "search", Roles: []users.Role{users.RoleOfficer}},

		// Admin entries
		{Key: "user-management", Label: "User Management", Route: "/dashboard/users", Icon: "users", Roles: []users.Role{users.RoleAdmin}},
		{Key: "analytics", Label: "Analytics", Route: "/dashboard/analytics", Icon: "bar-chart-3", Roles: []users.Role{users.RoleAdmin}},
		{Key: "activity-logs", Label: "Activity Logs", Route: "/dashboard/logs", Icon: "history", Roles: []users.Role{users.RoleAdmin}},
		{Key: "role-management", Label: "Role Management", Route: "/dashboard/roles", Icon: "shield", Roles: []users.Role{users.RoleAdmin}},

		// Common
		{Key: "settings", Label: "Settings", Route: "/dashboard/settings", Icon: "settings", Roles: allRoles},
	}
}
