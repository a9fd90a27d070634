package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

// ListRetailers returns every retailer, or only those awaiting verification.
func (s *Service) ListRetailers(ctx context.Context, pendingOnly bool) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx, models.RoleRetailer)
	if err != nil {
		return nil, fmt.Errorf("failed to list retailers: %w", err)
	}
	if !pendingOnly {
		return users, nil
	}

	pending := []models.User{}
	for _, u := range users {
		if !u.Verified {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

// ListAdmins returns every administrator.
func (s *Service) ListAdmins(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return users, nil
}

func (s *Service) userByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return user, nil
}

// VerifyRetailer approves a retailer for sign-in, or withdraws the approval.
func (s *Service) VerifyRetailer(ctx context.Context, adminID, userID string, verified bool) (*models.User, error) {
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleRetailer {
		return nil, apperr.Validation("only retailers need verification")
	}

	updated, err := s.update(ctx, user.Mobile, storage.UserPatch{Verified: &verified})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "retailer verification changed", "user_id", userID, "verified", verified, "admin_id", adminID)
	return updated, nil
}

// SetActive enables or disables an account. Administrators cannot disable
// themselves.
func (s *Service) SetActive(ctx context.Context, adminID, userID string, active bool) (*models.User, error) {
	if !active && adminID == userID {
		return nil, apperr.Validation("you cannot deactivate your own account")
	}
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, user.Mobile, storage.UserPatch{IsActive: &active})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "account status changed", "user_id", userID, "active", active, "admin_id", adminID)
	return updated, nil
}

func (s *Service) update(ctx context.Context, mobile string, patch storage.UserPatch) (*models.User, error) {
	user, err := s.store.UpdateUser(ctx, mobile, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
