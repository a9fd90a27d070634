package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/storage"
)

func (s *Store) UpsertChallenge(ctx context.Context, ch *models.OtpChallenge, prevVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch.Key = models.ChallengeKey(ch.Subject, ch.Purpose)
	if cur, ok := s.challenges[ch.Key]; ok && cur.Version != prevVersion {
		return storage.ErrVersionConflict
	}
	s.challenges[ch.Key] = *ch
	return nil
}

func (s *Store) GetChallenge(ctx context.Context, subject string, purpose models.OtpPurpose) (*models.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[models.ChallengeKey(subject, purpose)]
	if !ok {
		return nil, fmt.Errorf("%s challenge for %s: %w", purpose, subject, storage.ErrNotFound)
	}
	return &ch, nil
}

func (s *Store) FindActive(ctx context.Context, subject string, purpose models.OtpPurpose, now time.Time) (*models.OtpChallenge, error) {
	ch, err := s.GetChallenge(ctx, subject, purpose)
	if err != nil {
		return nil, err
	}
	if ch.State(now) != models.ChallengeActive {
		return nil, fmt.Errorf("active %s challenge for %s: %w", purpose, subject, storage.ErrNotFound)
	}
	return ch, nil
}

// current returns the stored challenge if it is still at the version the caller read.
func (s *Store) current(ch *models.OtpChallenge) (models.OtpChallenge, error) {
	cur, ok := s.challenges[models.ChallengeKey(ch.Subject, ch.Purpose)]
	if !ok || cur.Version != ch.Version {
		return models.OtpChallenge{}, storage.ErrVersionConflict
	}
	return cur, nil
}

func (s *Store) RecordFailedAttempt(ctx context.Context, ch *models.OtpChallenge, lock bool) (*models.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current(ch)
	if err != nil {
		return nil, err
	}
	cur.Attempts++
	if lock {
		cur.Locked = true
		cur.Used = true
	}
	cur.Version++
	s.challenges[cur.Key] = cur
	return &cur, nil
}

func (s *Store) MarkUsed(ctx context.Context, ch *models.OtpChallenge) (*models.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current(ch)
	if err != nil {
		return nil, err
	}
	cur.Used = true
	cur.Version++
	s.challenges[cur.Key] = cur
	return &cur, nil
}

func (s *Store) ReplaceCode(ctx context.Context, ch *models.OtpChallenge, codeHash string, expiresAt time.Time) (*models.OtpChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current(ch)
	if err != nil {
		return nil, err
	}
	if cur.ResendCount >= cur.MaxResend || cur.Used || cur.Locked {
		return nil, storage.ErrVersionConflict
	}
	cur.CodeHash = codeHash
	cur.Attempts = 0
	cur.ResendCount++
	cur.ExpiresAt = expiresAt
	cur.TTL = expiresAt.Unix()
	cur.Version++
	s.challenges[cur.Key] = cur
	return &cur, nil
}

func (s *Store) RestoreChallenge(ctx context.Context, prev *models.OtpChallenge, currentVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ChallengeKey(prev.Subject, prev.Purpose)
	cur, ok := s.challenges[key]
	if !ok || cur.Version != currentVersion {
		return storage.ErrVersionConflict
	}
	restored := *prev
	restored.Key = key
	restored.Version = currentVersion + 1
	s.challenges[key] = restored
	return nil
}

func (s *Store) DeleteChallenge(ctx context.Context, subject string, purpose models.OtpPurpose, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.ChallengeKey(subject, purpose)
	if cur, ok := s.challenges[key]; ok && cur.Version == version {
		delete(s.challenges, key)
	}
	return nil
}

func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, ch := range s.challenges {
		if !ch.ExpiresAt.After(now) {
			delete(s.challenges, key)
			removed++
		}
	}
	return removed, nil
}
