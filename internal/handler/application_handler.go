package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/service"
)

// ApplicationHandler serves application endpoints.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// ApplyRequest is the body of POST /application.
type ApplyRequest struct {
	OfferID string `json:"offerId" validate:"required,uuid"`
}

// UpdateStatusRequest is the body of PUT /application/:id.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ApplicationResponse wraps a single application.
type ApplicationResponse struct {
	Msg         string             `json:"msg,omitempty"`
	Application *model.Application `json:"application"`
}

// ApplicationsResponse wraps a list of applications.
type ApplicationsResponse struct {
	Applications []model.Application `json:"applications"`
}

// ListApplications godoc
// @Summary List applications visible to the caller
// @Description Admins see all, companies the ones they received, interns their own.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted or rejected"
// @Param offerId query string false "Offer ID"
// @Success 200 {object} ApplicationsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /application [get]
func (h *ApplicationHandler) ListApplications(c echo.Context) error {
	offerID, err := queryID(c, "offerId")
	if err != nil {
		return err
	}

	apps, err := h.applicationService.List(c.Request().Context(), middleware.UserFrom(c), repository.ApplicationFilter{
		OfferID: offerID,
		Status:  model.ApplicationStatus(c.QueryParam("status")),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationsResponse{Applications: apps})
}

// Apply godoc
// @Summary Apply to an offer
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApplyRequest true "Offer to apply to"
// @Success 201 {object} ApplicationResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /application [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req ApplyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.apply(c, uuid.MustParse(req.OfferID))
}

// ApplyToOffer godoc
// @Summary Apply to an offer by path
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer ID"
// @Success 201 {object} ApplicationResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /application/apply/{offerId} [post]
func (h *ApplicationHandler) ApplyToOffer(c echo.Context) error {
	offerID, err := pathID(c, "offerId")
	if err != nil {
		return err
	}
	return h.apply(c, offerID)
}

func (h *ApplicationHandler) apply(c echo.Context, offerID uuid.UUID) error {
	app, err := h.applicationService.Apply(c.Request().Context(), middleware.UserFrom(c), offerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, ApplicationResponse{Msg: "Application created successfully", Application: app})
}

// MyApplications godoc
// @Summary Applications of the caller
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ApplicationsResponse
// @Router /application/myApplications [get]
func (h *ApplicationHandler) MyApplications(c echo.Context) error {
	apps, err := h.applicationService.Mine(c.Request().Context(), middleware.UserFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationsResponse{Applications: apps})
}

// ListByOffer godoc
// @Summary Applications received by an offer
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer ID"
// @Success 200 {object} ApplicationsResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /application/offer/{offerId} [get]
func (h *ApplicationHandler) ListByOffer(c echo.Context) error {
	offerID, err := pathID(c, "offerId")
	if err != nil {
		return err
	}
	apps, err := h.applicationService.ListByOffer(c.Request().Context(), middleware.UserFrom(c), offerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationsResponse{Applications: apps})
}

// ListByIntern godoc
// @Summary Applications of an intern
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param internId path string true "Intern ID"
// @Success 200 {object} ApplicationsResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /application/intern/{internId} [get]
func (h *ApplicationHandler) ListByIntern(c echo.Context) error {
	internID, err := pathID(c, "internId")
	if err != nil {
		return err
	}
	apps, err := h.applicationService.ListByIntern(c.Request().Context(), middleware.UserFrom(c), internID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationsResponse{Applications: apps})
}

// GetApplication godoc
// @Summary Get application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} ApplicationResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /application/{id} [get]
func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	app, err := h.applicationService.Get(c.Request().Context(), middleware.UserFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationResponse{Application: app})
}

// UpdateStatus godoc
// @Summary Accept or reject an application
// @Description Only pending applications can change; accepted and rejected are final.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body UpdateStatusRequest true "accepted or rejected"
// @Success 200 {object} ApplicationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /application/{id} [put]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.applicationService.UpdateStatus(c.Request().Context(), middleware.UserFrom(c), id, model.ApplicationStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ApplicationResponse{Msg: "Application status updated", Application: app})
}

// DeleteApplication godoc
// @Summary Withdraw an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /application/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.applicationService.Withdraw(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "Application deleted successfully"})
}
