package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stablehq/treasury/internal/pkg/apperrors"
	"github.com/stablehq/treasury/internal/pkg/logger"
)

// Response is the standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a stable error code alongside the human message
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse sends a success envelope with data
func SuccessResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// ErrorResponseHandler sends an error envelope
func ErrorResponseHandler(c echo.Context, statusCode int, code, message string) error {
	return c.JSON(statusCode, Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponseHandler(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponseHandler(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// ForbiddenResponse sends a 403 Forbidden response
func ForbiddenResponse(c echo.Context, message string) error {
	if message == "" {
		message = "Forbidden"
	}
	return ErrorResponseHandler(c, http.StatusForbidden, "FORBIDDEN", message)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponseHandler(c, http.StatusNotFound, "NOT_FOUND", message)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return ErrorResponseHandler(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// RespondError maps an application error to the envelope. Typed errors keep
// their code and category-derived status; anything else is logged in full
// and returned as a generic internal error so provider details never leak.
func RespondError(c echo.Context, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Category == apperrors.CategoryIntegrity {
			logger.Warn("Integrity violation rejected",
				logger.String("code", appErr.Code),
				logger.String("path", c.Path()),
				logger.String("remote_ip", c.RealIP()),
			)
		}
		return c.JSON(appErr.HTTPStatus(), Response{
			Success: false,
			Error:   &ErrorBody{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
		})
	}

	logger.Error("Unhandled error at API boundary",
		logger.Err(err),
		logger.String("path", c.Path()),
	)
	return InternalServerErrorResponse(c, "")
}
