package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

func (s *Store) GetUserByMobile(ctx context.Context, mobile string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[mobile]
	if !ok {
		return nil, fmt.Errorf("user with mobile %s: %w", mobile, storage.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.UserId == userID {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
}

func (s *Store) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Mobile < users[j].Mobile
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, mobile string, patch storage.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[mobile]
	if !ok {
		return nil, fmt.Errorf("user with mobile %s: %w", mobile, storage.ErrNotFound)
	}
	if patch.Verified != nil {
		u.Verified = *patch.Verified
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	s.users[mobile] = u
	return &u, nil
}

func (s *Store) CreateAccount(ctx context.Context, user *models.User, wallet *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Mobile]; ok {
		return fmt.Errorf("user with mobile %s: %w", user.Mobile, storage.ErrAlreadyExists)
	}
	if wallet != nil {
		if _, ok := s.wallets[wallet.UserId]; ok {
			return fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, storage.ErrAlreadyExists)
		}
		s.wallets[wallet.UserId] = *wallet
	}
	s.users[user.Mobile] = *user
	return nil
}

func (s *Store) GetOption(ctx context.Context, optionID string) (*models.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.options[optionID]
	if !ok {
		return nil, fmt.Errorf("option %s: %w", optionID, storage.ErrNotFound)
	}
	return &o, nil
}

func (s *Store) PutOption(ctx context.Context, option *models.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options[option.OptionId] = *option
	return nil
}
