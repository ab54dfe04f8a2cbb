package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"internhub/internal/errors"
)

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// bindAndValidate decodes the request body into req and runs the struct validation rules.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return httpError(err)
	}
	return nil
}

// httpError converts a service error into an echo.HTTPError carrying an ErrorResponse.
// The original error stays attached so the error handler can log it.
func httpError(err error) error {
	mapped := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}

// pathID parses a uuid path parameter.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, httpError(errors.NewValidationError(errors.FieldError{Field: name, Msg: "invalid id"}))
	}
	return id, nil
}

// queryID parses an optional uuid query parameter.
func queryID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httpError(errors.NewValidationError(errors.FieldError{Field: name, Msg: "invalid id"}))
	}
	return id, nil
}
