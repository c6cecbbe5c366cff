package ports

import (
	"context"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// CatalogSource loads the track catalog once at startup.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)
}
