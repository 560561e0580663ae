package httperr

import (
	"errors"
	"strings"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// AsBusiness extracts the business code, if err carries one.
func AsBusiness(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

var conflictCodes = map[string]struct{}{
	"already_processed":        {},
	"tag_already_assigned":     {},
	"tag_change_pending":       {},
	"slug_already_exists":      {},
	"email_already_registered": {},
	"already_subscribed":       {},
	"claim_already_open":       {},
	"already_owner":            {},
}

// StatusFor maps a business code to its HTTP status.
func StatusFor(code string) int {
	if _, ok := conflictCodes[code]; ok {
		return 409
	}
	switch {
	case strings.HasSuffix(code, "_not_found"):
		return 404
	case code == "forbidden":
		return 403
	case code == "invalid_credentials":
		return 401
	case code == "email_failed", code == "upload_failed":
		return 502
	}
	return 400
}

// IsBusinessError reports whether err carries any business code.
func IsBusinessError(err error) bool {
	_, ok := AsBusiness(err)
	return ok
}
