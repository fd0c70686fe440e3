package service

import (
	"context"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/internal/identity/store"
	"github.com/arliden/identity/pkg/scopes"
)

// RolesService resolves role names to the scopes those roles currently
// grant. Token exchange goes through here so a role edit takes effect on
// the next rotation instead of being frozen into old claims.
type RolesService struct {
	Store store.Store
}

// GetRoleByID fetches a role by id.
func (s *RolesService) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	return s.Store.Roles().GetRoleByID(ctx, id)
}

// ResolveScopes returns the union of scopes granted by the named roles,
// each in canonical resource:action form. Role names that no longer exist
// contribute nothing, and stored grants that don't decode are skipped.
func (s *RolesService) ResolveScopes(ctx context.Context, roleNames []string) ([]string, error) {
	if len(roleNames) == 0 {
		return nil, nil
	}

	roles, err := s.Store.Roles().ListByNames(ctx, roleNames)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var out []string
	for _, r := range roles {
		for _, grant := range r.Scopes {
			resource, action, err := scopes.Decode(grant)
			if err != nil {
				continue
			}
			canonical := scopes.Encode(resource, action)
			if _, ok := seen[canonical]; ok {
				continue
			}
			seen[canonical] = struct{}{}
			out = append(out, canonical)
		}
	}
	return out, nil
}
