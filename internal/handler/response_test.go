package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internhub/internal/errors"
)

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"wrapped not found", fmt.Errorf("education %s: %w", uuid.New(), errors.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"transition", errors.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{"validation", errors.NewValidationError(errors.FieldError{Field: "status", Msg: "status must be accepted or rejected"}), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he, ok := httpError(tt.err).(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, he.Code)
			assert.Equal(t, tt.err, he.Internal)
			resp, ok := he.Message.(errors.ErrorResponse)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	id := uuid.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	got, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	_, err = pathID(c, "id")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "id", he.Message.(errors.ErrorResponse).Errors[0].Field)
}

func TestQueryID(t *testing.T) {
	e := echo.New()
	id := uuid.New()

	tests := []struct {
		name    string
		query   string
		want    uuid.UUID
		wantErr bool
	}{
		{"absent", "", uuid.Nil, false},
		{"valid", "?offerId=" + id.String(), id, false},
		{"malformed", "?offerId=7", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil), httptest.NewRecorder())
			got, err := queryID(c, "offerId")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
