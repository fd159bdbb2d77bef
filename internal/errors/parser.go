package errors

import (
	"errors"
	"strings"

	"github.com/harvestgreens/storefront/internal/app/service"
	"github.com/harvestgreens/storefront/internal/app/store"
	"github.com/harvestgreens/storefront/internal/storeapi"
)

// ErrorInfo is what the shell shows the user: a stable code plus a message.
type ErrorInfo struct {
	Code    string
	Message string
	Fields  map[string]string // per-field messages for validation failures
}

// ParseError converts any error surfaced by the stores, services or the API
// client into a user-facing code and message. Server-provided order rejection
// messages pass through verbatim; everything else gets a friendly default.
func ParseError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	// Client-side validation: field-level messages, no network involved.
	var fieldErrs store.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Please correct the highlighted fields",
			Fields:  fieldErrs,
		}
	}

	switch {
	case errors.Is(err, store.ErrInvalidCredentials):
		return ErrorInfo{Code: AuthInvalidCredentials, Message: "Invalid email or password"}
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "An account with this email already exists"}
	case errors.Is(err, store.ErrUnexpectedResponse):
		return ErrorInfo{Code: AuthUnexpectedResponse, Message: "The server sent an unexpected response. Please try again"}
	case errors.Is(err, service.ErrNotAuthenticated):
		return ErrorInfo{Code: OrderNotAuthenticated, Message: "Please sign in before checking out"}
	case errors.Is(err, service.ErrEmptyCart):
		return ErrorInfo{Code: CartEmpty, Message: "Your cart is empty"}
	case errors.Is(err, service.ErrProductNotFound):
		return ErrorInfo{Code: CatalogProductNotFound, Message: "Product not found"}
	case errors.Is(err, service.ErrOrderSubmissionFailed):
		// Keep the server's own wording when it rejected the order.
		var apiErr *storeapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return ErrorInfo{Code: OrderSubmissionFailed, Message: apiErr.Message}
		}
		return ErrorInfo{Code: OrderSubmissionFailed, Message: "Failed to place order"}
	case errors.Is(err, storeapi.ErrUnauthorized):
		return ErrorInfo{Code: AuthUnauthorized, Message: "Your session has expired. Please sign in again"}
	case errors.Is(err, storeapi.ErrNetworkError):
		return ErrorInfo{Code: NetworkError, Message: "An error occurred. Check your connection and try again"}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Code: NetworkError, Message: "An error occurred. Check your connection and try again"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
}
