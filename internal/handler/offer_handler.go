package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"internhub/internal/errors"
	"internhub/internal/middleware"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/service"
)

// OfferHandler serves offer endpoints.
type OfferHandler struct {
	offerService service.OfferService
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(offerService service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// CreateOfferRequest is the payload of a new offer. Facets left empty are derived from the free text.
type CreateOfferRequest struct {
	CompanyID      string `json:"companyId" validate:"omitempty,uuid"`
	Title          string `json:"title" validate:"required"`
	Location       string `json:"location"`
	Duration       string `json:"duration"`
	Type           string `json:"type" validate:"omitempty,oneof=remote hybrid in-office"`
	Payment        string `json:"payment"`
	PaymentKind    string `json:"paymentKind" validate:"omitempty,oneof=paid unpaid"`
	DurationBucket string `json:"durationBucket" validate:"omitempty,oneof=3 6 year undisclosed"`
	Description    string `json:"description"`
}

// UpdateOfferRequest lists the offer fields that may change. Absent fields are kept.
type UpdateOfferRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1"`
	Location       *string `json:"location"`
	Duration       *string `json:"duration"`
	Type           *string `json:"type" validate:"omitempty,oneof=remote hybrid in-office"`
	Payment        *string `json:"payment"`
	PaymentKind    *string `json:"paymentKind" validate:"omitempty,oneof=paid unpaid"`
	DurationBucket *string `json:"durationBucket" validate:"omitempty,oneof=3 6 year undisclosed"`
	Description    *string `json:"description"`
}

// OfferResponse wraps a single offer.
type OfferResponse struct {
	Msg   string       `json:"msg,omitempty"`
	Offer *model.Offer `json:"offer"`
}

// OffersResponse wraps a list of offers.
type OffersResponse struct {
	Msg    string        `json:"msg,omitempty"`
	Offers []model.Offer `json:"offers"`
}

// CreateOffer godoc
// @Summary Create offer
// @Description companyId defaults to the caller.
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOfferRequest true "Offer"
// @Success 201 {object} OfferResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer [post]
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var req CreateOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	actor := middleware.UserFrom(c)
	companyID := actor.ID
	if req.CompanyID != "" {
		companyID = uuid.MustParse(req.CompanyID)
	}
	return h.create(c, actor, companyID, req)
}

// CreateCompanyOffer godoc
// @Summary Create offer for a company
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param request body CreateOfferRequest true "Offer"
// @Success 201 {object} OfferResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/offers [post]
func (h *OfferHandler) CreateCompanyOffer(c echo.Context) error {
	companyID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CreateOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.create(c, middleware.UserFrom(c), companyID, req)
}

func (h *OfferHandler) create(c echo.Context, actor *model.User, companyID uuid.UUID, req CreateOfferRequest) error {
	offer, err := h.offerService.CreateOffer(c.Request().Context(), actor, companyID, service.OfferInput{
		Title:          req.Title,
		Location:       req.Location,
		Duration:       req.Duration,
		Type:           model.WorkType(req.Type),
		Payment:        req.Payment,
		PaymentKind:    model.PaymentKind(req.PaymentKind),
		DurationBucket: model.DurationBucket(req.DurationBucket),
		Description:    req.Description,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, OfferResponse{Msg: "Offer created successfully", Offer: offer})
}

// ListOffers godoc
// @Summary List offers
// @Tags offers
// @Produce json
// @Param search query string false "Substring of title or description"
// @Param location query string false "Substring of location"
// @Param payment query string false "paid or unpaid"
// @Param type query string false "remote, hybrid or in-office"
// @Param duration query string false "3, 6, year or undisclosed"
// @Param companyId query string false "Company ID"
// @Param sort query string false "newest (default) or oldest"
// @Success 200 {object} OffersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /offer [get]
func (h *OfferHandler) ListOffers(c echo.Context) error {
	companyID, err := queryID(c, "companyId")
	if err != nil {
		return err
	}

	sort := c.QueryParam("sort")
	if sort != "" && sort != "newest" && sort != "oldest" {
		return httpError(errors.NewValidationError(errors.FieldError{Field: "sort", Msg: "sort must be newest or oldest"}))
	}

	offers, err := h.offerService.ListOffers(c.Request().Context(), repository.OfferFilter{
		Search:    c.QueryParam("search"),
		Location:  c.QueryParam("location"),
		Payment:   model.PaymentKind(c.QueryParam("payment")),
		Type:      model.WorkType(c.QueryParam("type")),
		Duration:  model.DurationBucket(c.QueryParam("duration")),
		CompanyID: companyID,
		Oldest:    sort == "oldest",
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, OffersResponse{Msg: "all Offers", Offers: offers})
}

// GetOffer godoc
// @Summary Get offer
// @Tags offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} OfferResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer/{id} [get]
func (h *OfferHandler) GetOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	offer, err := h.offerService.GetOffer(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, OfferResponse{Msg: "offer is found", Offer: offer})
}

// ListByCompany godoc
// @Summary List offers of a company
// @Tags offers
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {object} OffersResponse
// @Router /offer/company/{companyId} [get]
func (h *OfferHandler) ListByCompany(c echo.Context) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return err
	}
	offers, err := h.offerService.ListByCompany(c.Request().Context(), companyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, OffersResponse{Offers: offers})
}

// UpdateOffer godoc
// @Summary Update offer
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body UpdateOfferRequest true "Fields to change"
// @Success 200 {object} OfferResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer/{id} [put]
func (h *OfferHandler) UpdateOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.update(c, id)
}

// UpdateCompanyOffer godoc
// @Summary Update offer of a company
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param offerId path string true "Offer ID"
// @Param request body UpdateOfferRequest true "Fields to change"
// @Success 200 {object} OfferResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/offers/{offerId} [put]
func (h *OfferHandler) UpdateCompanyOffer(c echo.Context) error {
	offerID, err := h.companyOffer(c)
	if err != nil {
		return err
	}
	return h.update(c, offerID)
}

func (h *OfferHandler) update(c echo.Context, id uuid.UUID) error {
	var req UpdateOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	upd := service.OfferUpdate{
		Title:       req.Title,
		Location:    req.Location,
		Duration:    req.Duration,
		Payment:     req.Payment,
		Description: req.Description,
	}
	if req.Type != nil {
		t := model.WorkType(*req.Type)
		upd.Type = &t
	}
	if req.PaymentKind != nil {
		k := model.PaymentKind(*req.PaymentKind)
		upd.PaymentKind = &k
	}
	if req.DurationBucket != nil {
		b := model.DurationBucket(*req.DurationBucket)
		upd.DurationBucket = &b
	}

	offer, err := h.offerService.UpdateOffer(c.Request().Context(), middleware.UserFrom(c), id, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, OfferResponse{Msg: "Offer updated", Offer: offer})
}

// DeleteOffer godoc
// @Summary Delete offer
// @Description Deletes the offer with its applications in one transaction.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer/{id} [delete]
func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.delete(c, id)
}

// DeleteCompanyOffer godoc
// @Summary Delete offer of a company
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param offerId path string true "Offer ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/offers/{offerId} [delete]
func (h *OfferHandler) DeleteCompanyOffer(c echo.Context) error {
	offerID, err := h.companyOffer(c)
	if err != nil {
		return err
	}
	return h.delete(c, offerID)
}

func (h *OfferHandler) delete(c echo.Context, id uuid.UUID) error {
	if err := h.offerService.DeleteOffer(c.Request().Context(), middleware.UserFrom(c), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Msg: "offer is deleted"})
}

// companyOffer resolves /user/:id/offers/:offerId and checks that the offer belongs to :id.
func (h *OfferHandler) companyOffer(c echo.Context) (uuid.UUID, error) {
	companyID, err := pathID(c, "id")
	if err != nil {
		return uuid.Nil, err
	}
	offerID, err := pathID(c, "offerId")
	if err != nil {
		return uuid.Nil, err
	}
	offer, err := h.offerService.GetOffer(c.Request().Context(), offerID)
	if err != nil {
		return uuid.Nil, httpError(err)
	}
	if offer.CompanyID != companyID {
		return uuid.Nil, httpError(errors.ErrOfferNotFound)
	}
	return offerID, nil
}

// OfferDetails godoc
// @Summary Offer with its applications
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param status query string false "pending, accepted or rejected"
// @Success 200 {object} service.OfferDetails
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer/{id}/details [get]
func (h *OfferHandler) OfferDetails(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	status := model.ApplicationStatus(c.QueryParam("status"))

	details, err := h.offerService.OfferDetails(c.Request().Context(), middleware.UserFrom(c), id, status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, details)
}

// OfferSummary godoc
// @Summary Application counts of an offer
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} service.OfferSummary
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /offer/{id}/summary [get]
func (h *OfferHandler) OfferSummary(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.offerService.OfferSummary(c.Request().Context(), middleware.UserFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
