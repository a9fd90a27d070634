package storage

import (
	"context"

	"github.com/chris/retailer-services/pkg/models"
)

// CatalogStore resolves purchasable options.
type CatalogStore interface {
	// GetOption retrieves an option by its ID.
	GetOption(ctx context.Context, optionID string) (*models.Option, error)

	// PutOption creates or replaces an option. Only used for seeding.
	PutOption(ctx context.Context, option *models.Option) error
}
