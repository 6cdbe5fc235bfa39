package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the request admission and configuration layers. Handlers
// translate them into HTTP status codes; the messages are written so a user
// (or the operator, for the credential one) can act on them directly.
var (
	ErrNoImages             = errors.New("add at least one photo")
	ErrNoValidImages        = errors.New("no usable reference image: every photo was rejected by format or size checks")
	ErrUnsupportedImageType = errors.New("unsupported image format: use jpeg, png or webp")
	ErrImageTooLarge        = errors.New("image exceeds the 50 MiB limit")
	ErrMissingAPIKey        = errors.New("OPENAI_API_KEY is not set (add it to the server environment)")
	ErrRunInFlight          = errors.New("a generation run is already in progress")
)

// ProviderError carries the status reported by the external AI provider so the
// request boundary can propagate it instead of collapsing everything to 500.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("provider: status %d: %s", e.Status, e.Message)
	}
	return "provider: " + e.Message
}

// IsUserInput reports whether err belongs to the user-actionable 4xx family.
func IsUserInput(err error) bool {
	return errors.Is(err, ErrNoImages) ||
		errors.Is(err, ErrNoValidImages) ||
		errors.Is(err, ErrUnsupportedImageType) ||
		errors.Is(err, ErrImageTooLarge)
}

// HTTPStatus maps a pipeline error onto the response code contract: user
// input and missing configuration are 400, provider failures keep the
// provider's own status when it is an error code, anything else is 500.
func HTTPStatus(err error) int {
	switch {
	case IsUserInput(err), errors.Is(err, ErrMissingAPIKey):
		return 400
	default:
		var pe *ProviderError
		if errors.As(err, &pe) && pe.Status >= 400 {
			return pe.Status
		}
		return 500
	}
}
