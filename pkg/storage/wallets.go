package storage

import (
	"context"

	"github.com/chris/retailer-services/pkg/models"
)

// WalletStore defines the interface for reading and provisioning wallets.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// CreateWallet creates a new wallet for a user.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)
}
