package httperr

import "errors"

// BusinessError is a domain-rule failure identified by a stable code.
// Codes travel unchanged from the domain to the HTTP boundary.
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

// IsAnyBusiness reports whether err is a business error at all,
// regardless of code.
func IsAnyBusiness(err error) bool {
	var be BusinessError
	return errors.As(err, &be)
}
