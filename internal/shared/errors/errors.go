// Package errors provides application-level error types and utilities.
// It defines common error kinds (validation, not found, unauthorized) plus the
// provider-facing kinds used by the VPN provisioning path.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"

	// Provider panel error kinds. These never reach external callers verbatim;
	// the HTTP layer collapses them to a generic failure message.
	ErrorTypeProviderAuth        ErrorType = "provider_auth_error"
	ErrorTypeProviderAPI         ErrorType = "provider_api_error"
	ErrorTypeProviderUnavailable ErrorType = "provider_unavailable"
	ErrorTypeNoInbounds          ErrorType = "no_inbounds_configured"
	ErrorTypeNotProvisioned      ErrorType = "not_provisioned"
	ErrorTypeInvalidToken        ErrorType = "invalid_token"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details...)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// NewProviderAuthError indicates the login exchange against the provider panel failed.
func NewProviderAuthError(details ...string) *AppError {
	return newAppError(ErrorTypeProviderAuth, http.StatusBadGateway, "provider authentication failed", details...)
}

// NewProviderAPIError indicates the panel rejected an authenticated request.
// Status and path are kept in Details for operational logs only.
func NewProviderAPIError(status int, path string, details ...string) *AppError {
	detail := fmt.Sprintf("status=%d path=%s", status, path)
	if len(details) > 0 && details[0] != "" {
		detail = fmt.Sprintf("%s: %s", detail, details[0])
	}
	return newAppError(ErrorTypeProviderAPI, http.StatusBadGateway, "provider request failed", detail)
}

// NewProviderUnavailableError indicates a network-level failure reaching the panel.
func NewProviderUnavailableError(details ...string) *AppError {
	return newAppError(ErrorTypeProviderUnavailable, http.StatusServiceUnavailable, "provider unavailable", details...)
}

// NewNoInboundsError indicates the panel has no inbounds configured; an
// operational problem, not a transient one.
func NewNoInboundsError() *AppError {
	return newAppError(ErrorTypeNoInbounds, http.StatusServiceUnavailable, "no inbounds configured on provider panel")
}

// NewNotProvisionedError indicates an operation requires an existing provider
// client that does not exist.
func NewNotProvisionedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotProvisioned, http.StatusConflict, message, details...)
}

// NewInvalidTokenError covers malformed, expired, and mis-signed download
// tokens alike. The cause is never distinguished externally.
func NewInvalidTokenError() *AppError {
	return newAppError(ErrorTypeInvalidToken, http.StatusForbidden, "invalid or expired download token")
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsProviderError reports whether err belongs to any provider-facing kind.
func IsProviderError(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Type {
	case ErrorTypeProviderAuth, ErrorTypeProviderAPI, ErrorTypeProviderUnavailable:
		return true
	}
	return false
}
