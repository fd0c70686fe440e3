package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/pkg/scopes"
)

type rolesRepo struct {
	q dbtx
}

const roleColumns = `id, name, scopes, created_at, updated_at`

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	return scanRole(row)
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name = ?`, name)
	return scanRole(row)
}

func (r *rolesRepo) ListByNames(ctx context.Context, names []string) ([]domain.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE name IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	for _, grant := range role.Scopes {
		if !scopes.Valid(grant) {
			return fmt.Errorf("role %q scope %q: %w", role.Name, grant, scopes.ErrMalformed)
		}
	}

	now := time.Now().UTC()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = now
	}
	if role.UpdatedAt.IsZero() {
		role.UpdatedAt = now
	}
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO roles (id, name, scopes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		role.ID, role.Name, joinScopes(role.Scopes), role.CreatedAt, role.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *rolesRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func scanRole(row rowScanner) (domain.Role, error) {
	var role domain.Role
	var raw string
	err := row.Scan(&role.ID, &role.Name, &raw, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	role.Scopes = splitScopes(raw)
	return role, nil
}
