package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// bindAndValidate binds the request body into req and validates it.
// On failure it writes the 400 response enumerating every violated field
// and returns false.
func bindAndValidate(ctx echo.Context, req interface{}) bool {
	if err := ctx.Bind(req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  []string{"invalid request body"},
		})
		return false
	}
	if err := ctx.Validate(req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ValidationResponse{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  utils.ValidationFieldErrors(err),
		})
		return false
	}
	return true
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	})
}

func forbidden(ctx echo.Context, message string) error {
	if message == "" {
		message = "Access denied"
	}
	return ctx.JSON(http.StatusForbidden, models.Response{
		Status:  http.StatusForbidden,
		Message: message,
	})
}

func notFound(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotFound, models.Response{
		Status:  http.StatusNotFound,
		Message: message,
	})
}

// internalError hides the underlying failure from the client; the detail
// goes to the request logger only
func internalError(ctx echo.Context, err error, message string) error {
	ctx.Logger().Errorf("%s: %v", message, err)
	return ctx.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: message,
	})
}
