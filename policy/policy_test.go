package policy_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thedevz43/landrecords/policy"
	"github.com/thedevz43/landrecords/users"
)

func collect(seq func(yield func(policy.Entry) bool)) []string {
	var keys []string
	seq(func(e policy.Entry) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	_, err := policy.New([]policy.Entry{
		{Key: "", Label: "Nameless", Route: "/x", Roles: []users.Role{users.RoleAdmin}},
	})
	require.Error(t, err, "entries need a key")

	_, err = policy.New([]policy.Entry{
		{Key: "orphan", Label: "Orphan", Route: "/x"},
	})
	require.Error(t, err, "empty role sets are a configuration error")

	_, err = policy.New([]policy.Entry{
		{Key: "twice", Label: "One", Route: "/x", Roles: []users.Role{users.RoleAdmin}},
		{Key: "twice", Label: "Two", Route: "/y", Roles: []users.Role{users.RoleAdmin}},
	})
	require.Error(t, err, "duplicate keys are a configuration error")
}

func TestVisibilityMatchesRoleSets(t *testing.T) {
	p := policy.Default()

	// For every role and every catalog entry: visible iff the role is in
	// the entry's role set, and the catalog order is preserved.
	for _, role := range []users.Role{users.RoleCitizen, users.RoleOfficer, users.RoleAdmin} {
		var expected []string
		for _, entry := range p.Catalog() {
			for _, r := range entry.Roles {
				if r == role {
					expected = append(expected, entry.Key)
					break
				}
			}
		}
		require.Equal(t, expected, collect(p.VisibleEntries(role)), "role %s", role)
	}
}

func TestVisibleEntriesForCitizen(t *testing.T) {
	p := policy.Default()

	require.Equal(t, []string{
		"dashboard",
		"my-lands",
		"mutation-requests",
		"tax-payments",
		"documents",
		"settings",
	}, collect(p.VisibleEntries(users.RoleCitizen)))
}

func TestVisibleEntriesForOfficer(t *testing.T) {
	p := policy.Default()

	require.Equal(t, []string{
		"dashboard",
		"pending-applications",
		"approved-cases",
		"land-disputes",
		"land-search",
		"settings",
	}, collect(p.VisibleEntries(users.RoleOfficer)))
}

func TestVisibleEntriesForAdmin(t *testing.T) {
	p := policy.Default()

	require.Equal(t, []string{
		"dashboard",
		"user-management",
		"analytics",
		"activity-logs",
		"role-management",
		"settings",
	}, collect(p.VisibleEntries(users.RoleAdmin)))
}

func TestVisibleEntriesIsRestartable(t *testing.T) {
	p := policy.Default()
	seq := p.VisibleEntries(users.RoleOfficer)

	first := collect(seq)
	second := collect(seq)
	require.Equal(t, first, second, "ranging twice yields the same entries")
}

func TestVisibleEntriesStopsOnBreak(t *testing.T) {
	p := policy.Default()

	var got []string
	for entry := range p.VisibleEntries(users.RoleAdmin) {
		got = append(got, entry.Key)
		if len(got) == 2 {
			break
		}
	}
	require.Equal(t, []string{"dashboard", "user-management"}, got)
}

func TestIsPermitted(t *testing.T) {
	p := policy.Default()

	require.True(t, p.IsPermitted(users.RoleAdmin, "user-management"))
	require.False(t, p.IsPermitted(users.RoleCitizen, "user-management"))
	require.True(t, p.IsPermitted(users.RoleCitizen, "tax-payments"))
	require.False(t, p.IsPermitted(users.RoleOfficer, "tax-payments"))

	// Every entry is visible to all three roles or to a strict subset;
	// dashboard and settings are common.
	for _, role := range []users.Role{users.RoleCitizen, users.RoleOfficer, users.RoleAdmin} {
		require.True(t, p.IsPermitted(role, "dashboard"))
		require.True(t, p.IsPermitted(role, "settings"))
	}
}

func TestIsPermittedFailsClosedForUnknownKeys(t *testing.T) {
	p := policy.Default()

	for _, role := range []users.Role{users.RoleCitizen, users.RoleOfficer, users.RoleAdmin} {
		require.False(t, p.IsPermitted(role, "no-such-resource"))
		require.False(t, p.IsPermitted(role, ""))
	}
}
