package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"internhub/internal/cache"
	apperrors "internhub/internal/errors"
	"internhub/internal/metrics"
	"internhub/internal/model"
	"internhub/internal/offerfacet"
	"internhub/internal/repository"
)

const offerCacheTTL = 5 * time.Minute

func offerCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("offer:%s", id.String())
}

// OfferInput carries the fields of a new offer. Facets left empty are derived from the free text.
type OfferInput struct {
	Title          string
	Location       string
	Duration       string
	Type           model.WorkType
	Payment        string
	PaymentKind    model.PaymentKind
	DurationBucket model.DurationBucket
	Description    string
}

// OfferUpdate is the closed set of offer fields that can change. Nil fields are left as is.
type OfferUpdate struct {
	Title          *string
	Location       *string
	Duration       *string
	Type           *model.WorkType
	Payment        *string
	PaymentKind    *model.PaymentKind
	DurationBucket *model.DurationBucket
	Description    *string
}

// OfferDetails is an offer together with the applications it received.
type OfferDetails struct {
	Offer        *model.Offer        `json:"offer"`
	Applications []model.Application `json:"applications"`
}

// OfferSummary is the per-status application count of an offer.
type OfferSummary struct {
	OfferID  uuid.UUID `json:"offerId"`
	Title    string    `json:"title"`
	Total    int64     `json:"total"`
	Pending  int64     `json:"pending"`
	Accepted int64     `json:"accepted"`
	Rejected int64     `json:"rejected"`
}

// OfferService manages internship offers.
type OfferService interface {
	CreateOffer(ctx context.Context, actor *model.User, companyID uuid.UUID, in OfferInput) (*model.Offer, error)
	ListOffers(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Offer, error)
	UpdateOffer(ctx context.Context, actor *model.User, id uuid.UUID, upd OfferUpdate) (*model.Offer, error)
	DeleteOffer(ctx context.Context, actor *model.User, id uuid.UUID) error
	OfferDetails(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*OfferDetails, error)
	OfferSummary(ctx context.Context, actor *model.User, id uuid.UUID) (*OfferSummary, error)
}

type offerService struct {
	store repository.Store
	cache *cache.Client
}

// NewOfferService creates a new offer service.
func NewOfferService(store repository.Store, cache *cache.Client) OfferService {
	return &offerService{store: store, cache: cache}
}

// CreateOffer publishes an offer on behalf of a company.
func (s *offerService) CreateOffer(ctx context.Context, actor *model.User, companyID uuid.UUID, in OfferInput) (*model.Offer, error) {
	company, err := s.store.Users().FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	if !actor.CanManage(company.ID) {
		return nil, apperrors.ErrForbidden
	}
	if company.Role != model.RoleEntreprise {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "companyId", Msg: "offers can only be published by a company"})
	}

	offer := &model.Offer{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(in.Title),
		Location:       strings.TrimSpace(in.Location),
		Duration:       strings.TrimSpace(in.Duration),
		Type:           in.Type,
		Payment:        strings.TrimSpace(in.Payment),
		PaymentKind:    in.PaymentKind,
		DurationBucket: in.DurationBucket,
		Description:    in.Description,
		CompanyID:      company.ID,
	}
	if err := validateOffer(offer); err != nil {
		return nil, err
	}
	offerfacet.Apply(offer)

	if err := s.store.Offers().Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

// ListOffers returns offers matching the filter.
func (s *offerService) ListOffers(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error) {
	if filter.Payment != "" && !filter.Payment.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "payment", Msg: "payment must be paid or unpaid"})
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "type", Msg: "type must be remote, hybrid or in-office"})
	}
	if filter.Duration != "" && !filter.Duration.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "duration", Msg: "duration must be 3, 6, year or undisclosed"})
	}

	offers, err := s.store.Offers().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// GetOffer returns a single offer, reading through the cache.
func (s *offerService) GetOffer(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var cached model.Offer
	if s.cache.GetJSON(ctx, offerCacheKey(id), &cached) {
		return &cached, nil
	}

	offer, err := s.findOffer(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, offerCacheKey(id), offer, offerCacheTTL)
	return offer, nil
}

// ListByCompany returns the offers published by one company.
func (s *offerService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Offer, error) {
	return s.ListOffers(ctx, repository.OfferFilter{CompanyID: companyID})
}

// UpdateOffer applies a partial update. Facets are recomputed from changed free text
// unless the update sets them explicitly.
func (s *offerService) UpdateOffer(ctx context.Context, actor *model.User, id uuid.UUID, upd OfferUpdate) (*model.Offer, error) {
	offer, err := s.findOffer(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(offer.CompanyID) {
		return nil, apperrors.ErrForbidden
	}

	if upd.Title != nil {
		offer.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		offer.Description = *upd.Description
	}
	if upd.Location != nil {
		offer.Location = strings.TrimSpace(*upd.Location)
		if upd.Type == nil {
			offer.Type = ""
		}
	}
	if upd.Payment != nil {
		offer.Payment = strings.TrimSpace(*upd.Payment)
		offer.Stipend = decimal.NullDecimal{}
		if upd.PaymentKind == nil {
			offer.PaymentKind = ""
		}
	}
	if upd.Duration != nil {
		offer.Duration = strings.TrimSpace(*upd.Duration)
		if upd.DurationBucket == nil {
			offer.DurationBucket = ""
		}
	}
	if upd.Type != nil {
		offer.Type = *upd.Type
	}
	if upd.PaymentKind != nil {
		offer.PaymentKind = *upd.PaymentKind
	}
	if upd.DurationBucket != nil {
		offer.DurationBucket = *upd.DurationBucket
	}

	if err := validateOffer(offer); err != nil {
		return nil, err
	}
	offerfacet.Apply(offer)

	if err := s.store.Offers().Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}
	_ = s.cache.Delete(ctx, offerCacheKey(id))
	return offer, nil
}

// DeleteOffer removes an offer together with its applications and applied-offer rows.
func (s *offerService) DeleteOffer(ctx context.Context, actor *model.User, id uuid.UUID) error {
	var internIDs []uuid.UUID
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		offer, err := s.findOffer(ctx, tx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(offer.CompanyID) {
			return apperrors.ErrForbidden
		}

		internIDs, err = offerApplicants(ctx, tx, id)
		if err != nil {
			return err
		}
		return deleteOfferCascade(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	metrics.RecordCascadeDelete("offer")
	keys := []string{offerCacheKey(id)}
	for _, internID := range internIDs {
		keys = append(keys, userCacheKey(internID))
	}
	_ = s.cache.Delete(ctx, keys...)
	return nil
}

// OfferDetails lists the applications of an offer, optionally narrowed to one status.
func (s *offerService) OfferDetails(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*OfferDetails, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "status", Msg: "status must be pending, accepted or rejected"})
	}

	offer, err := s.findOffer(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(offer.CompanyID) {
		return nil, apperrors.ErrForbidden
	}

	apps, err := s.store.Applications().List(ctx, repository.ApplicationFilter{OfferID: id, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return &OfferDetails{Offer: offer, Applications: apps}, nil
}

// OfferSummary counts the applications of an offer per status.
func (s *offerService) OfferSummary(ctx context.Context, actor *model.User, id uuid.UUID) (*OfferSummary, error) {
	offer, err := s.findOffer(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(offer.CompanyID) {
		return nil, apperrors.ErrForbidden
	}

	counts, err := s.store.Applications().CountByStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	return &OfferSummary{
		OfferID:  offer.ID,
		Title:    offer.Title,
		Total:    counts.Total(),
		Pending:  counts.Pending,
		Accepted: counts.Accepted,
		Rejected: counts.Rejected,
	}, nil
}

func (s *offerService) findOffer(ctx context.Context, store repository.Store, id uuid.UUID) (*model.Offer, error) {
	offer, err := store.Offers().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	return offer, nil
}

// offerApplicants returns the ids of the interns who applied to an offer. Their cached
// profiles list the offer in appliedOffers and go stale when it is deleted.
func offerApplicants(ctx context.Context, store repository.Store, offerID uuid.UUID) ([]uuid.UUID, error) {
	apps, err := store.Applications().List(ctx, repository.ApplicationFilter{OfferID: offerID})
	if err != nil {
		return nil, fmt.Errorf("list applications of offer %s: %w", offerID, err)
	}
	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.InternID)
	}
	return ids, nil
}

// deleteOfferCascade removes an offer and every row referencing it. It must run inside a transaction.
func deleteOfferCascade(ctx context.Context, tx repository.Store, offerID uuid.UUID) error {
	if _, err := tx.Applications().DeleteByOffer(ctx, offerID); err != nil {
		return fmt.Errorf("delete applications of offer %s: %w", offerID, err)
	}
	if _, err := tx.Users().RemoveAppliedOfferEverywhere(ctx, offerID); err != nil {
		return fmt.Errorf("pull applied offer %s: %w", offerID, err)
	}
	if err := tx.Offers().Delete(ctx, offerID); err != nil {
		return err
	}
	return nil
}

func validateOffer(o *model.Offer) error {
	var fields []apperrors.FieldError
	if o.Title == "" {
		fields = append(fields, apperrors.FieldError{Field: "title", Msg: "title is required"})
	}
	if o.Type != "" && !o.Type.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "type", Msg: "type must be remote, hybrid or in-office"})
	}
	if o.PaymentKind != "" && !o.PaymentKind.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "paymentKind", Msg: "paymentKind must be paid or unpaid"})
	}
	if o.DurationBucket != "" && !o.DurationBucket.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "durationBucket", Msg: "durationBucket must be 3, 6, year or undisclosed"})
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields...)
	}
	return nil
}
