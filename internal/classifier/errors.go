package classifier

import "fmt"

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	_, ok := err.(*authError)
	return ok
}

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

// IsRateLimitError checks if an error is a rate-limit error.
func IsRateLimitError(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}
