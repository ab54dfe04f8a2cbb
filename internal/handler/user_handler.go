package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/service"
)

// UserHandler serves profile endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest lists the profile fields that may change. Absent fields are kept.
type UpdateUserRequest struct {
	Name        *string   `json:"name" validate:"omitempty,notblank"`
	Lastname    *string   `json:"lastname" validate:"omitempty,notblank"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Password    *string   `json:"password" validate:"omitempty,min=8,max=20,maxbytes=72"`
	Phonenumber *string   `json:"phonenumber" validate:"omitempty,notblank"`
	Address     *string   `json:"address"`
	Industry    *string   `json:"industry"`
	Website     *string   `json:"website"`
	Linkedin    *string   `json:"linkedin"`
	Github      *string   `json:"github"`
	Skills      *[]string `json:"skills"`
	Description *string   `json:"description"`
}

// EducationRequest is an education entry payload.
type EducationRequest struct {
	Diploma    *string `json:"diploma"`
	University *string `json:"university"`
	Location   *string `json:"location"`
	Date       *string `json:"date"`
}

// ProjectRequest is a project payload.
type ProjectRequest struct {
	Title       *string `json:"title"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	LiveDemo    *string `json:"liveDemo"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Msg  string      `json:"msg,omitempty"`
	User *model.User `json:"user"`
}

// UsersResponse wraps a list of users.
type UsersResponse struct {
	Msg   string       `json:"msg,omitempty"`
	Users []model.User `json:"users"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UsersResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context(), middleware.UserFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UsersResponse{Msg: "all Users", Users: users})
}

// UpdateUser godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), middleware.UserFrom(c), id, service.UserUpdate{
		Name:        req.Name,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phonenumber,
		Address:     req.Address,
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
	return c.JSON(http.StatusOK, UserResponse{Msg: "User is updated", User: user})
}

// DeleteUser godoc
// @Summary Delete user
// @Description Deletes the user with its offers, applications and profile entries.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "user is deleted"})
}

// AddEducation godoc
// @Summary Add education entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body EducationRequest true "Education"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/education [post]
func (h *UserHandler) AddEducation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req EducationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.AddEducation(c.Request().Context(), middleware.UserFrom(c), id, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Education added", User: user})
}

// UpdateEducation godoc
// @Summary Update education entry
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param eduId path string true "Education ID"
// @Param request body EducationRequest true "Education"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/education/{eduId} [put]
func (h *UserHandler) UpdateEducation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	eduID, err := pathID(c, "eduId")
	if err != nil {
		return err
	}
	var req EducationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateEducation(c.Request().Context(), middleware.UserFrom(c), id, eduID, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Education updated", User: user})
}

// DeleteEducation godoc
// @Summary Delete education entry
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param eduId path string true "Education ID"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/education/{eduId} [delete]
func (h *UserHandler) DeleteEducation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	eduID, err := pathID(c, "eduId")
	if err != nil {
		return err
	}

	user, err := h.svc.DeleteEducation(c.Request().Context(), middleware.UserFrom(c), id, eduID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Education deleted", User: user})
}

// AddProject godoc
// @Summary Add project
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body ProjectRequest true "Project"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/projects [post]
func (h *UserHandler) AddProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.AddProject(c.Request().Context(), middleware.UserFrom(c), id, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Project added", User: user})
}

// UpdateProject godoc
// @Summary Update project
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param projId path string true "Project ID"
// @Param request body ProjectRequest true "Project"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/projects/{projId} [put]
func (h *UserHandler) UpdateProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	projID, err := pathID(c, "projId")
	if err != nil {
		return err
	}
	var req ProjectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.UpdateProject(c.Request().Context(), middleware.UserFrom(c), id, projID, req.input())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Project updated", User: user})
}

// DeleteProject godoc
// @Summary Delete project
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param projId path string true "Project ID"
// @Success 200 {object} UserResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/projects/{projId} [delete]
func (h *UserHandler) DeleteProject(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	projID, err := pathID(c, "projId")
	if err != nil {
		return err
	}

	user, err := h.svc.DeleteProject(c.Request().Context(), middleware.UserFrom(c), id, projID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{Msg: "Project deleted", User: user})
}

func (r EducationRequest) input() service.EducationInput {
	return service.EducationInput{
		Diploma:    r.Diploma,
		University: r.University,
		Location:   r.Location,
		Date:       r.Date,
	}
}

func (r ProjectRequest) input() service.ProjectInput {
	return service.ProjectInput{
		Title:       r.Title,
		Image:       r.Image,
		Description: r.Description,
		LiveDemo:    r.LiveDemo,
	}
}
