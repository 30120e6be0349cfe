package ports

import (
	"context"

	"orderengine/internal/core/domain/model/catalog"
	"orderengine/internal/core/domain/model/kernel"
)

// CatalogRepository reads restaurants and menu items.
type CatalogRepository interface {
	AddRestaurant(ctx context.Context, r *catalog.Restaurant) error
	AddMenuItem(ctx context.Context, m *catalog.MenuItem) error

	GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error)

	// GetMenuItems returns the menu items with the given ids, whatever their
	// restaurant or active flag. Unknown ids are omitted.
	GetMenuItems(ctx context.Context, ids []kernel.UUID) ([]*catalog.MenuItem, error)
}
