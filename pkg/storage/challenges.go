package storage

import (
	"context"
	"time"

	"github.com/chris/retailer-services/pkg/models"
)

// ChallengeStore persists OTP challenges. There is at most one record per
// (subject, purpose) pair and every mutation is conditional on the version the
// caller read, returning ErrVersionConflict when another writer got there first.
type ChallengeStore interface {
	// UpsertChallenge writes ch as the only challenge for its pair. It succeeds
	// when no record exists or the stored record is still at prevVersion, and
	// fails with ErrVersionConflict otherwise. prevVersion 0 means the caller
	// saw no record.
	UpsertChallenge(ctx context.Context, ch *models.OtpChallenge, prevVersion int64) error

	// GetChallenge returns the stored challenge whatever its state, or ErrNotFound.
	GetChallenge(ctx context.Context, subject string, purpose models.OtpPurpose) (*models.OtpChallenge, error)

	// FindActive returns the challenge only if it is active at now. Used, locked
	// and expired challenges are reported as ErrNotFound.
	FindActive(ctx context.Context, subject string, purpose models.OtpPurpose, now time.Time) (*models.OtpChallenge, error)

	// RecordFailedAttempt increments the attempts counter, locking the challenge when lock is set.
	RecordFailedAttempt(ctx context.Context, ch *models.OtpChallenge, lock bool) (*models.OtpChallenge, error)

	// MarkUsed consumes the challenge.
	MarkUsed(ctx context.Context, ch *models.OtpChallenge) (*models.OtpChallenge, error)

	// ReplaceCode installs a new code for a resend: attempts reset, resend count
	// bumped and expiry refreshed. Fails with ErrVersionConflict when the resend
	// bound has been reached concurrently.
	ReplaceCode(ctx context.Context, ch *models.OtpChallenge, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error)

	// RestoreChallenge puts prev back if the stored record is still at currentVersion.
	RestoreChallenge(ctx context.Context, prev *models.OtpChallenge, currentVersion int64) error

	// DeleteChallenge removes the challenge if it is still at version.
	DeleteChallenge(ctx context.Context, subject string, purpose models.OtpPurpose, version int64) error

	// DeleteExpired removes challenges that expired before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
