package postgres

import (
	"encoding/json"

	"github.com/peerassist/backend/domain"
)

func marshalOTP(otp *domain.CompletionOTP) ([]byte, error) {
	if otp == nil {
		return nil, nil
	}
	return json.Marshal(otp)
}

// stringArray normalizes nil slices so NOT NULL array columns stay valid.
func stringArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
