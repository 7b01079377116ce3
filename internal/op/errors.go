package op

import (
	"errors"
	"fmt"
	"net/http"
)

const propertyConstraintViolation = "urn:openproject-org:api:v3:errors:PropertyConstraintViolation"

// APIError is a structured error returned by the OpenProject API. The
// client performs no retries and no backoff; every failure surfaces to the
// caller after a single round trip.
type APIError struct {
	Status     int
	Identifier string
	Message    string
	Attribute  string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %d", e.Status)
}

// IsConflict reports whether err is a stale lock-version rejection. The
// caller must refetch before retrying; neither the client nor any layer
// above it synthesizes a fresh lock version.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// isMembershipRejection matches the specific rejection shape the API
// produces when the assignee is not a member of the target project.
func isMembershipRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.Status == http.StatusUnprocessableEntity &&
		apiErr.Identifier == propertyConstraintViolation &&
		apiErr.Attribute == "assignee"
}
