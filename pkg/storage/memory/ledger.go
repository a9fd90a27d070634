package memory

import (
	"context"
	"fmt"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/google/uuid"
)

func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrNotFound)
	}
	return &w, nil
}

func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[wallet.UserId]; ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", wallet.UserId, storage.ErrAlreadyExists)
	}
	s.wallets[wallet.UserId] = *wallet
	return wallet, nil
}

func (s *Store) PostEntry(ctx context.Context, e storage.Entry) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEntry(e); err != nil {
		return nil, err
	}
	return s.commitEntry(e), nil
}

func (s *Store) ListTransactions(ctx context.Context, walletID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[walletID]; !ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", walletID, storage.ErrNotFound)
	}
	out := make([]models.Transaction, len(s.txs[walletID]))
	copy(out, s.txs[walletID])
	return out, nil
}

// checkEntry evaluates the wallet condition of e without writing anything.
// A short balance is reported before a stale version, as the DynamoDB store does.
func (s *Store) checkEntry(e storage.Entry) error {
	w, ok := s.wallets[e.WalletID]
	if !ok {
		return fmt.Errorf("wallet for user ID %s: %w", e.WalletID, storage.ErrNotFound)
	}
	if e.Direction == models.Debit && w.Balance < e.Amount {
		return storage.ErrInsufficientFunds
	}
	if w.Version != e.ExpectedVersion {
		return storage.ErrVersionConflict
	}
	return nil
}

// commitEntry applies e. The caller must have checked it under the same lock.
func (s *Store) commitEntry(e storage.Entry) *models.Transaction {
	now := s.now()
	w := s.wallets[e.WalletID]
	if e.Direction == models.Debit {
		w.Balance -= e.Amount
	} else {
		w.Balance += e.Amount
	}
	w.Version++
	w.UpdatedAt = now
	s.wallets[e.WalletID] = w

	meta := make(map[string]string, len(e.Meta))
	for k, v := range e.Meta {
		meta[k] = v
	}
	tx := models.Transaction{
		WalletId:  e.WalletID,
		Seq:       w.Version,
		Id:        uuid.New().String(),
		Direction: e.Direction,
		Amount:    e.Amount,
		Meta:      meta,
		CreatedAt: now,
	}
	s.txs[e.WalletID] = append(s.txs[e.WalletID], tx)
	return &tx
}
