package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"internhub/internal/auth"
	apperrors "internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/service"
)

const (
	tokenKey       = "user"
	claimsKey      = "claims"
	currentUserKey = "currentUser"
)

// JWT verifies the bearer token of the Authorization header and stores the parsed token.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtService.Secret(),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    tokenKey,
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":" + auth.BearerPrefix,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: "invalid or missing token",
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// CurrentUser resolves the verified token to its user. A revoked token or a
// token whose user was deleted is rejected.
func CurrentUser(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenKey).(*jwt.Token)
			if !ok {
				return apperrors.ErrUnauthorized
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return apperrors.ErrUnauthorized
			}

			user, err := authService.Authenticate(c.Request().Context(), claims)
			if err != nil {
				return err
			}

			c.Set(claimsKey, claims)
			c.Set(currentUserKey, user)
			c.Set(loggerKey, Logger(c).WithField("user_id", user.ID.String()))
			return next(c)
		}
	}
}

// RequireRole lets the request through only when the current user holds one of roles.
// Admins always pass.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil {
				return apperrors.ErrUnauthorized
			}
			if user.IsAdmin() {
				return next(c)
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperrors.ErrForbidden
		}
	}
}

// UserFrom returns the authenticated user, or nil on public routes.
func UserFrom(c echo.Context) *model.User {
	user, _ := c.Get(currentUserKey).(*model.User)
	return user
}

// ClaimsFrom returns the verified token claims of the request.
func ClaimsFrom(c echo.Context) (*auth.Claims, error) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok {
		return nil, errors.New("no claims in context")
	}
	return claims, nil
}
