package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes data as the JSON body with the given status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes a 200 response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return DataResponse(c, statusCode, ErrorBody{Error: message})
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// AppErrorResponse writes an application error without leaking its cause.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return ErrorResponse(c, appErr.Status, http.StatusText(appErr.Status))
	}
	return InternalServerErrorResponse(c)
}
