package land

import (
	"context"

	"github.com/pkg/errors"
	"github.com/thedevz43/landrecords/users"
)

// Summary is the role-scoped dashboard data. Fields irrelevant to the
// viewer's role are zero.
type Summary struct {
	TotalParcels     int // all roles
	OwnParcels       int // citizen
	OwnApplications  int // citizen
	PendingMutations int // officer
	TotalUsers       int // admin
}

// Summarize computes the dashboard counts for the given viewer.
func Summarize(ctx context.Context, viewer users.User, registry *Registry, book *MutationBook, directory users.Directory) (Summary, error) {
	summary := Summary{TotalParcels: registry.Len()}

	switch viewer.Role {
	case users.RoleCitizen:
		summary.OwnParcels = len(registry.ByOwner(ctx, viewer.ID))
		summary.OwnApplications = len(book.ByApplicant(ctx, viewer.ID))
	case users.RoleOfficer:
		summary.PendingMutations = len(book.ByStatus(ctx, MutationPending)) +
			len(book.ByStatus(ctx, MutationUnderReview))
	case users.RoleAdmin:
		all, err := directory.List(ctx)
		if err != nil {
			return Summary{}, errors.Wrap(err, "[land.Summarize] listing users")
		}
		summary.TotalUsers = len(all)
		summary.PendingMutations = book.Len()
	}
	return summary, nil
}
