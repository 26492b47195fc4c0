// Package otp generates the short verification codes printed on tickets.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a ticket verification code.
const CodeLength = 6

// Generator produces verification codes. It is injected into the booking
// pipeline so tests can substitute a deterministic implementation.
type Generator interface {
	Generate() (string, error)
}

// CryptoGenerator draws 6-digit codes (leading zeros allowed) from
// crypto/rand. Codes are not pre-checked for uniqueness: the caller inserts
// and retries on a uniqueness conflict, because check-then-insert races
// under concurrency.
type CryptoGenerator struct{}

// NewGenerator returns the production code generator.
func NewGenerator() CryptoGenerator {
	return CryptoGenerator{}
}

var codeSpace = big.NewInt(1_000_000) // 10^6

// Generate returns a uniformly random 6-digit code as a string.
func (CryptoGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
