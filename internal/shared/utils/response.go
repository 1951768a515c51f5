package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noryx/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// OKResponse sends a 200 response with data.
func OKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    "error",
			Message: message,
		},
	})
}

// ErrorResponseWithError sends an error response based on error type.
// Provider-facing errors and unrecognized errors are collapsed to a generic
// message so that panel status codes and internal detail never leak outward.
func ErrorResponseWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	errorInfo := ErrorInfo{
		Type:    string(errors.ErrorTypeInternal),
		Message: "Internal server error occurred",
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		switch {
		case errors.IsProviderError(err) || appErr.Type == errors.ErrorTypeNoInbounds:
			statusCode = http.StatusInternalServerError
			errorInfo = ErrorInfo{
				Type:    string(errors.ErrorTypeInternal),
				Message: "Failed to connect to VPN",
			}
		case appErr.Type == errors.ErrorTypeInvalidToken:
			// One generic 403 for every invalid-token cause.
			statusCode = http.StatusForbidden
			errorInfo = ErrorInfo{
				Type:    string(errors.ErrorTypeForbidden),
				Message: "Invalid or expired download token",
			}
		default:
			statusCode = appErr.Code
			errorInfo = ErrorInfo{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Details: appErr.Details,
			}
		}
	}

	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   &errorInfo,
	})
}
