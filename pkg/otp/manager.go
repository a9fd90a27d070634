// Package otp issues and verifies one-time codes bound to a subject and a purpose.
//
// A challenge moves NONE -> ACTIVE -> {USED, EXPIRED, LOCKED}. Every change to
// a stored challenge is a compare-and-swap on its version, so concurrent sends,
// resends and verifies for the same subject never lose updates.
package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/notify"
	"github.com/chris/retailer-services/pkg/storage"
	"golang.org/x/crypto/bcrypt"
)

// maxCASRetries bounds how often a lost version race is retried before giving up.
const maxCASRetries = 5

// Guard is a precondition checked before a code is issued, such as "the mobile
// number is not registered yet".
type Guard func(ctx context.Context, subject string, purpose models.OtpPurpose) error

// Issued describes a code that was just delivered.
type Issued struct {
	ExpiresAt        time.Time
	ResendCount      int
	RemainingResends int
}

// Manager implements the challenge lifecycle on top of a ChallengeStore.
type Manager struct {
	store    storage.ChallengeStore
	sender   notify.Sender
	cfg      Config
	now      func() time.Time
	generate CodeGenerator
	hashCost int
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithCodeGenerator replaces the random code source.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(m *Manager) {
		m.generate = gen
	}
}

// WithHashCost sets the bcrypt cost of stored code hashes.
func WithHashCost(cost int) Option {
	return func(m *Manager) {
		m.hashCost = cost
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager. Zero values in cfg fall back to DefaultConfig.
func NewManager(store storage.ChallengeStore, sender notify.Sender, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		sender:   sender,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		generate: RandomDigits,
		hashCost: bcrypt.DefaultCost,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func validate(subject string, purpose models.OtpPurpose) error {
	if subject == "" {
		return apperr.Validation("subject is required")
	}
	if !purpose.Valid() {
		return apperr.Validation("invalid purpose", string(purpose))
	}
	return nil
}

func (m *Manager) newCode() (string, string, error) {
	code, err := m.generate(m.cfg.CodeLength)
	if err != nil {
		return "", "", apperr.Internal("failed to generate code", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), m.hashCost)
	if err != nil {
		return "", "", apperr.Internal("failed to hash code", err)
	}
	return code, string(hash), nil
}

// Send issues a fresh challenge for the pair, replacing whatever challenge it
// had, and delivers the code. The replacement is conditional on the version
// read, so concurrent senders and resenders never overwrite each other blindly.
// If delivery fails the new challenge is removed.
func (m *Manager) Send(ctx context.Context, subject string, purpose models.OtpPurpose, guard Guard) (*Issued, error) {
	if err := validate(subject, purpose); err != nil {
		return nil, err
	}
	if guard != nil {
		if err := guard(ctx, subject, purpose); err != nil {
			return nil, err
		}
	}

	code, hash, err := m.newCode()
	if err != nil {
		return nil, err
	}

	ch, err := m.install(ctx, subject, purpose, hash)
	if err != nil {
		return nil, err
	}

	if err := m.sender.SendCode(ctx, subject, code); err != nil {
		m.logger.ErrorContext(ctx, "otp delivery failed", "purpose", purpose, "error", err)
		if delErr := m.store.DeleteChallenge(ctx, subject, purpose, ch.Version); delErr != nil {
			m.logger.ErrorContext(ctx, "failed to remove undelivered challenge", "purpose", purpose, "error", delErr)
		}
		return nil, apperr.Upstream("failed to deliver code", err)
	}

	m.logger.InfoContext(ctx, "otp sent", "purpose", purpose)
	return &Issued{ExpiresAt: ch.ExpiresAt, RemainingResends: ch.MaxResend}, nil
}

// install stores a fresh challenge over whatever record it read. The new record
// takes the next version so readers of the old one lose their races.
func (m *Manager) install(ctx context.Context, subject string, purpose models.OtpPurpose, hash string) (*models.OtpChallenge, error) {
	for range maxCASRetries {
		var prevVersion int64
		prev, err := m.store.GetChallenge(ctx, subject, purpose)
		switch {
		case err == nil:
			prevVersion = prev.Version
		case !errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("failed to read challenge: %w", err)
		}

		now := m.now().UTC()
		ch := &models.OtpChallenge{
			Subject:     subject,
			Purpose:     purpose,
			CodeHash:    hash,
			MaxAttempts: m.cfg.MaxAttempts,
			MaxResend:   m.cfg.MaxResend,
			Version:     prevVersion + 1,
			CreatedAt:   now,
			ExpiresAt:   now.Add(m.cfg.TTL()),
		}
		err = m.store.UpsertChallenge(ctx, ch, prevVersion)
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store challenge: %w", err)
		}
		return ch, nil
	}
	return nil, apperr.ErrConcurrentUpdate
}

// Resend replaces the code of the active challenge. Without an active challenge
// it behaves like Send. Once the resend bound is reached the active challenge is
// left untouched and ErrResendLimitExceeded is returned.
func (m *Manager) Resend(ctx context.Context, subject string, purpose models.OtpPurpose, guard Guard) (*Issued, error) {
	if err := validate(subject, purpose); err != nil {
		return nil, err
	}

	for range maxCASRetries {
		ch, err := m.store.FindActive(ctx, subject, purpose, m.now())
		if errors.Is(err, storage.ErrNotFound) {
			return m.Send(ctx, subject, purpose, guard)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read challenge: %w", err)
		}
		if ch.ResendCount >= ch.MaxResend {
			return nil, apperr.ErrResendLimitExceeded
		}
		if guard != nil {
			if err := guard(ctx, subject, purpose); err != nil {
				return nil, err
			}
		}

		code, hash, err := m.newCode()
		if err != nil {
			return nil, err
		}
		updated, err := m.store.ReplaceCode(ctx, ch, hash, m.now().UTC().Add(m.cfg.TTL()))
		if errors.Is(err, storage.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to replace code: %w", err)
		}

		if err := m.sender.SendCode(ctx, subject, code); err != nil {
			m.logger.ErrorContext(ctx, "otp redelivery failed", "purpose", purpose, "error", err)
			if rbErr := m.store.RestoreChallenge(ctx, ch, updated.Version); rbErr != nil {
				m.logger.ErrorContext(ctx, "failed to restore challenge", "purpose", purpose, "error", rbErr)
			}
			return nil, apperr.Upstream("failed to deliver code", err)
		}

		m.logger.InfoContext(ctx, "otp resent", "purpose", purpose, "resend_count", updated.ResendCount)
		return &Issued{
			ExpiresAt:        updated.ExpiresAt,
			ResendCount:      updated.ResendCount,
			RemainingResends: updated.MaxResend - updated.ResendCount,
		}, nil
	}

	return nil, apperr.ErrConcurrentUpdate
}

// Verify consumes the challenge when code matches. A wrong code counts as an
// attempt and returns *InvalidCodeError; the attempt that reaches the bound
// locks the challenge.
func (m *Manager) Verify(ctx context.Context, subject string, purpose models.OtpPurpose, code string) error {
	if err := validate(subject, purpose); err != nil {
		return err
	}
	if code == "" {
		return apperr.Validation("code is required")
	}

	for range maxCASRetries {
		ch, err := m.store.GetChallenge(ctx, subject, purpose)
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.ErrNoActiveChallenge
		}
		if err != nil {
			return fmt.Errorf("failed to read challenge: %w", err)
		}

		switch ch.State(m.now()) {
		case models.ChallengeLocked:
			return apperr.ErrLocked
		case models.ChallengeUsed:
			return apperr.ErrNoActiveChallenge
		case models.ChallengeExpired:
			return apperr.ErrExpired
		}

		if bcrypt.CompareHashAndPassword([]byte(ch.CodeHash), []byte(code)) != nil {
			lock := ch.Attempts+1 >= ch.MaxAttempts
			updated, err := m.store.RecordFailedAttempt(ctx, ch, lock)
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to record attempt: %w", err)
			}
			if lock {
				m.logger.WarnContext(ctx, "otp challenge locked", "purpose", purpose)
			}
			return &InvalidCodeError{Remaining: updated.RemainingAttempts()}
		}

		_, err = m.store.MarkUsed(ctx, ch)
		if errors.Is(err, storage.ErrVersionConflict) {
			cur, getErr := m.store.GetChallenge(ctx, subject, purpose)
			if getErr == nil && cur.State(m.now()) == models.ChallengeUsed {
				return apperr.ErrAlreadyUsedChallenge
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to consume challenge: %w", err)
		}
		return nil
	}

	return apperr.ErrConcurrentUpdate
}

// Sweep deletes expired challenges. Lookups never depend on it having run.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	n, err := m.store.DeleteExpired(ctx, m.now().UTC())
	if err != nil {
		return n, fmt.Errorf("failed to sweep challenges: %w", err)
	}
	return n, nil
}
