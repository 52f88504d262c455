package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tourbook/internal/domain"
	"tourbook/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

const routeColumns = `id, slug, name, price_per_person, discount_type, discount_value, discount_from_pax`

// GetByID retrieves a route by id.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	return r.scan(r.q.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a route by its URL slug.
func (r *RouteRepository) GetBySlug(ctx context.Context, slug string) (*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE slug = $1`
	return r.scan(r.q.QueryRowContext(ctx, query, slug))
}

// GetAll retrieves all routes.
func (r *RouteRepository) GetAll(ctx context.Context) ([]*domain.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID,
			&route.Slug,
			&route.Name,
			&route.PricePerPerson,
			&route.DiscountType,
			&route.DiscountValue,
			&route.DiscountFromPax,
		); err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

func (r *RouteRepository) scan(row *sql.Row) (*domain.Route, error) {
	var route domain.Route
	err := row.Scan(
		&route.ID,
		&route.Slug,
		&route.Name,
		&route.PricePerPerson,
		&route.DiscountType,
		&route.DiscountValue,
		&route.DiscountFromPax,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &route, nil
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
