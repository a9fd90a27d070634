package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodeGenerator produces a numeric code of the given length.
type CodeGenerator func(length int) (string, error)

// RandomDigits draws each digit from crypto/rand.
func RandomDigits(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
