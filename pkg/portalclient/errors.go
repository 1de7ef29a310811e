package portalclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a non-2xx answer from the portal API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal api: status %d", e.Status)
	}
	return fmt.Sprintf("portal api: status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// HandleError turns any error returned by the client into a message fit for end users.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return messageForStatus(apiErr)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "Request timeout. Please try again."
	case errors.As(err, &netErr), errors.Is(err, errTransport):
		return "Network error. Please check your internet connection."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func messageForStatus(e *APIError) string {
	withFallback := func(fallback string) string {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}

	switch e.Status {
	case http.StatusBadRequest:
		return withFallback("Bad request - Please check your input")
	case http.StatusUnauthorized:
		return "Session expired. Please log in again."
	case http.StatusForbidden:
		return "Access denied. Please log in again."
	case http.StatusNotFound:
		return withFallback("Resource not found")
	case http.StatusConflict:
		return withFallback("Conflict - Resource already exists")
	case http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return withFallback(fmt.Sprintf("Error %d: An error occurred", e.Status))
	}
}
