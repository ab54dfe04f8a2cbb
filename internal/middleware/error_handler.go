package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "internhub/internal/errors"
)

// HTTPErrorHandler renders every error as an ErrorResponse. Errors that are not
// already HTTP errors go through MapErrorToHTTP, and details of server-side
// failures are logged but never sent to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := normalizeError(err)
	if status >= http.StatusInternalServerError {
		Logger(c).WithError(rootCause(err)).Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		Logger(c).WithError(err).Warn("failed to write error response")
	}
}

func normalizeError(err error) (int, apperrors.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg
		case *apperrors.ErrorResponse:
			return he.Code, *msg
		}
		if he.Code >= http.StatusInternalServerError {
			return http.StatusInternalServerError, internalResponse()
		}
		return he.Code, apperrors.ErrorResponse{
			Error: fmt.Sprint(he.Message),
			Code:  codeForStatus(he.Code),
		}
	}

	mapped := apperrors.MapErrorToHTTP(err)
	return mapped.StatusCode, mapped.ToErrorResponse()
}

func rootCause(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		return he.Internal
	}
	return err
}

func internalResponse() apperrors.ErrorResponse {
	return apperrors.ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return "ERROR"
	}
}
