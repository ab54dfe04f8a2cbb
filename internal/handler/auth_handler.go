package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"internhub/internal/errors"
	"internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	Lastname    string   `json:"lastname" validate:"required,notblank"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8,max=20,maxbytes=72"`
	Phonenumber string   `json:"phonenumber" validate:"required,notblank"`
	Address     string   `json:"address"`
	Role        string   `json:"role" validate:"omitempty,oneof=intern entreprise"`
	Industry    string   `json:"industry"`
	Website     string   `json:"website"`
	Linkedin    string   `json:"linkedin"`
	Github      string   `json:"github"`
	Skills      []string `json:"skills"`
	Description string   `json:"description"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=20,maxbytes=72"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Msg   string      `json:"msg"`
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Name:        req.Name,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phonenumber,
		Address:     req.Address,
		Role:        model.Role(req.Role),
		Industry:    req.Industry,
		Website:     req.Website,
		Linkedin:    req.Linkedin,
		Github:      req.Github,
		Skills:      req.Skills,
		Description: req.Description,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Msg:   "user saved successfully",
		User:  user,
		Token: token,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Msg:   "user logged in successfully",
		User:  user,
		Token: token,
	})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented token until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := middleware.ClaimsFrom(c)
	if err != nil {
		return httpError(errors.ErrUnauthorized)
	}

	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Msg: "logged out successfully"})
}

// Current godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/current [get]
func (h *AuthHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, UserResponse{User: middleware.UserFrom(c)})
}
