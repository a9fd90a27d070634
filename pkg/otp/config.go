package otp

import "time"

// Config bounds the lifetime and abuse limits of challenges.
type Config struct {
	TTLMinutes  int `envconfig:"TTL_MINUTES" default:"5"`
	MaxAttempts int `envconfig:"MAX_ATTEMPTS" default:"5"`
	MaxResend   int `envconfig:"MAX_RESEND" default:"3"`
	CodeLength  int `envconfig:"CODE_LENGTH" default:"6"`
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{TTLMinutes: 5, MaxAttempts: 5, MaxResend: 3, CodeLength: 6}
}

// TTL returns the challenge lifetime.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TTLMinutes <= 0 {
		c.TTLMinutes = d.TTLMinutes
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.MaxResend <= 0 {
		c.MaxResend = d.MaxResend
	}
	if c.CodeLength <= 0 {
		c.CodeLength = d.CodeLength
	}
	return c
}
