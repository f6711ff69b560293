package shared

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

type APIError struct {
	Code    string `json:"code" example:"invalid_frame_order"`
	Message string `json:"message" example:"landing frame must come after take-off frame"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func Forbidden(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusForbidden)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func Conflict(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusConflict)
}

func TooLarge(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusRequestEntityTooLarge)
}

func UnsupportedMedia(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusUnsupportedMediaType)
}

func Unprocessable(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusUnprocessableEntity)
}

func TooManyRequests(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusTooManyRequests)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}
