package repository

import (
	"context"

	"tourbook/internal/domain"
)

// RouteRepository defines read access to tour routes.
type RouteRepository interface {
	// GetByID retrieves a route by id.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// GetBySlug retrieves a route by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Route, error)

	// GetAll retrieves all routes.
	GetAll(ctx context.Context) ([]*domain.Route, error)
}
