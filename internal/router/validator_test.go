package router

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "internhub/internal/errors"
)

type sampleRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Status string `json:"status" validate:"omitempty,oneof=accepted rejected"`
	Bio    string `json:"bio" validate:"max=5"`
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name       string
		req        sampleRequest
		wantFields map[string]string
	}{
		{
			name: "valid",
			req:  sampleRequest{Email: "a@b.co", Status: "accepted"},
		},
		{
			name:       "missing email",
			req:        sampleRequest{},
			wantFields: map[string]string{"email": "email is required"},
		},
		{
			name: "several violations",
			req:  sampleRequest{Email: "nope", Status: "pending", Bio: "too long"},
			wantFields: map[string]string{
				"email":  "please enter a valid email",
				"status": "status must be one of: accepted, rejected",
				"bio":    "bio must be at most 5 characters",
			},
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			got := map[string]string{}
			for _, f := range verr.Fields {
				got[f.Field] = f.Msg
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

type profileRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank"`
	Password string  `json:"password" validate:"omitempty,max=20,maxbytes=72"`
}

func TestValidator_BlankAndByteLength(t *testing.T) {
	blank, name := "   ", "Ada"

	tests := []struct {
		name       string
		req        profileRequest
		wantFields map[string]string
	}{
		{name: "absent name", req: profileRequest{}},
		{name: "filled name", req: profileRequest{Name: &name, Password: "password123"}},
		{name: "blank name", req: profileRequest{Name: &blank}, wantFields: map[string]string{"name": "name is required"}},
		{
			name:       "twenty runes over 72 bytes",
			req:        profileRequest{Password: strings.Repeat("😀", 20)},
			wantFields: map[string]string{"password": "password must be at most 72 bytes"},
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			got := map[string]string{}
			for _, f := range verr.Fields {
				got[f.Field] = f.Msg
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestStrictBinder(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		ctype     string
		wantErr   string
		wantEmail string
	}{
		{name: "known fields", body: `{"email":"a@b.co"}`, ctype: echo.MIMEApplicationJSON, wantEmail: "a@b.co"},
		{name: "charset suffix", body: `{"email":"a@b.co"}`, ctype: echo.MIMEApplicationJSONCharsetUTF8, wantEmail: "a@b.co"},
		{name: "empty body", body: "", ctype: echo.MIMEApplicationJSON},
		{name: "unknown field", body: `{"email":"a@b.co","role":"admin"}`, ctype: echo.MIMEApplicationJSON, wantErr: `unknown field "role"`},
		{name: "wrong type", body: `{"email":42}`, ctype: echo.MIMEApplicationJSON, wantErr: `field "email" has the wrong type`},
		{name: "trailing object", body: `{"email":"a@b.co"}{"email":"c@d.co"}`, ctype: echo.MIMEApplicationJSON, wantErr: "request body must contain a single JSON object"},
		{name: "form body", body: "email=a%40b.co", ctype: echo.MIMEApplicationForm, wantEmail: "a@b.co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, tt.ctype)
			c := e.NewContext(req, httptest.NewRecorder())

			var dst struct {
				Email string `json:"email" form:"email"`
			}
			err := (&StrictBinder{}).Bind(&dst, c)

			if tt.wantErr != "" {
				var he *echo.HTTPError
				require.True(t, errors.As(err, &he))
				assert.Equal(t, http.StatusBadRequest, he.Code)
				resp, ok := he.Message.(apperrors.ErrorResponse)
				require.True(t, ok)
				assert.Equal(t, tt.wantErr, resp.Error)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, dst.Email)
		})
	}
}
