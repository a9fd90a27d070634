package storage

import (
	"context"

	"github.com/chris/retailer-services/pkg/models"
)

// UserPatch lists the account flags an administrator may change. Nil fields
// are left as stored.
type UserPatch struct {
	Verified *bool
	IsActive *bool
}

// AccountStore defines the interface for user accounts.
type AccountStore interface {
	// GetUserByMobile retrieves an account by its mobile number.
	GetUserByMobile(ctx context.Context, mobile string) (*models.User, error)

	// GetUserByID retrieves an account by its user ID.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves an account by its lower-cased email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers returns every account with the given role, oldest first.
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)

	// CreateAccount stores the user and, when wallet is non-nil, its wallet in
	// one atomic write. Fails with ErrAlreadyExists if the mobile is taken.
	CreateAccount(ctx context.Context, user *models.User, wallet *models.Wallet) error

	// UpdateUser applies the patch to the account with the given mobile number
	// and returns the updated account. Fails with ErrNotFound if there is none.
	UpdateUser(ctx context.Context, mobile string, patch UserPatch) (*models.User, error)
}
