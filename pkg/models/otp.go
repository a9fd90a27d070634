package models

import (
	"time"
)

// OtpPurpose scopes a challenge to the flow it gates.
type OtpPurpose string

const (
	PurposeRegister OtpPurpose = "register"
	PurposeLogin    OtpPurpose = "login"
)

// Valid reports whether p is a known purpose.
func (p OtpPurpose) Valid() bool {
	return p == PurposeRegister || p == PurposeLogin
}

// ChallengeState is the derived lifecycle state of a challenge.
type ChallengeState string

const (
	ChallengeNone    ChallengeState = "NONE"
	ChallengeActive  ChallengeState = "ACTIVE"
	ChallengeUsed    ChallengeState = "USED"
	ChallengeLocked  ChallengeState = "LOCKED"
	ChallengeExpired ChallengeState = "EXPIRED"
)

// OtpChallenge is the single outstanding code for a (subject, purpose) pair.
// Only the bcrypt hash of the code is stored.
type OtpChallenge struct {
	Key         string     `dynamodbav:"challenge_key"`
	Subject     string     `dynamodbav:"subject"`
	Purpose     OtpPurpose `dynamodbav:"purpose"`
	CodeHash    string     `dynamodbav:"code_hash"`
	Attempts    int        `dynamodbav:"attempts"`
	MaxAttempts int        `dynamodbav:"max_attempts"`
	ResendCount int        `dynamodbav:"resend_count"`
	MaxResend   int        `dynamodbav:"max_resend"`
	Used        bool       `dynamodbav:"used"`
	Locked      bool       `dynamodbav:"locked"`
	Version     int64      `dynamodbav:"version"`
	CreatedAt   time.Time  `dynamodbav:"created_at"`
	ExpiresAt   time.Time  `dynamodbav:"expires_at"`
	TTL         int64      `dynamodbav:"ttl"`
}

// ChallengeKey builds the storage key of the challenge for subject and purpose.
func ChallengeKey(subject string, purpose OtpPurpose) string {
	return string(purpose) + "#" + subject
}

// State derives the lifecycle state at the given instant. Locked wins over
// used, and used wins over expired.
func (c *OtpChallenge) State(now time.Time) ChallengeState {
	switch {
	case c == nil:
		return ChallengeNone
	case c.Locked:
		return ChallengeLocked
	case c.Used:
		return ChallengeUsed
	case !now.Before(c.ExpiresAt):
		return ChallengeExpired
	default:
		return ChallengeActive
	}
}

// RemainingAttempts returns how many wrong codes may still be submitted.
func (c *OtpChallenge) RemainingAttempts() int {
	if left := c.MaxAttempts - c.Attempts; left > 0 {
		return left
	}
	return 0
}
