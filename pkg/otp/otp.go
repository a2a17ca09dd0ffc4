package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate returns a zero-padded numeric code with the given number of
// digits, drawn from crypto/rand.
func Generate(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("otp: invalid digit count %d", digits)
	}
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
