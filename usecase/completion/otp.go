package completion

import "github.com/peerassist/backend/pkg/otp"

// codeDigits is the width of generated completion codes.
const codeDigits = 6

// GenerateCode returns a fresh completion code.
func GenerateCode() (string, error) {
	return otp.Generate(codeDigits)
}
