package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/cache"
	apperrors "internhub/internal/errors"
	"internhub/internal/metrics"
	"internhub/internal/model"
	"internhub/internal/repository"
)

// ApplicationService drives the application lifecycle: pending, then accepted or rejected.
type ApplicationService interface {
	Apply(ctx context.Context, actor *model.User, offerID uuid.UUID) (*model.Application, error)
	List(ctx context.Context, actor *model.User, filter repository.ApplicationFilter) ([]model.Application, error)
	Mine(ctx context.Context, actor *model.User) ([]model.Application, error)
	ListByOffer(ctx context.Context, actor *model.User, offerID uuid.UUID) ([]model.Application, error)
	ListByIntern(ctx context.Context, actor *model.User, internID uuid.UUID) ([]model.Application, error)
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Application, error)
	UpdateStatus(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error)
	Withdraw(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type applicationService struct {
	store repository.Store
	cache *cache.Client
}

// NewApplicationService creates a new application service.
func NewApplicationService(store repository.Store, cache *cache.Client) ApplicationService {
	return &applicationService{store: store, cache: cache}
}

// Apply submits the caller's application to an offer. The application row and the
// intern's applied-offer entry are written in one transaction.
func (s *applicationService) Apply(ctx context.Context, actor *model.User, offerID uuid.UUID) (*model.Application, error) {
	if actor == nil || actor.Role != model.RoleIntern {
		return nil, apperrors.ErrForbidden
	}

	var app *model.Application
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		offer, err := tx.Offers().FindByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrOfferNotFound
			}
			return fmt.Errorf("find offer: %w", err)
		}

		_, err = tx.Applications().FindByOfferAndIntern(ctx, offerID, actor.ID)
		if err == nil {
			return apperrors.ErrDuplicateApplication
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check existing application: %w", err)
		}

		app = &model.Application{
			ID:        uuid.New(),
			OfferID:   offer.ID,
			InternID:  actor.ID,
			CompanyID: offer.CompanyID,
			Status:    model.ApplicationStatusPending,
		}
		if err := tx.Applications().Create(ctx, app); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateApplication
			}
			return fmt.Errorf("create application: %w", err)
		}
		if err := tx.Users().AddAppliedOffer(ctx, actor.ID, offer.ID); err != nil {
			return fmt.Errorf("record applied offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordApplicationCreated()
	_ = s.cache.Delete(ctx, userCacheKey(actor.ID))
	return app, nil
}

// List returns the applications visible to the caller: everything for admins,
// received applications for companies and own applications for interns.
func (s *applicationService) List(ctx context.Context, actor *model.User, filter repository.ApplicationFilter) ([]model.Application, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "status", Msg: "status must be pending, accepted or rejected"})
	}

	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleEntreprise:
		filter.CompanyID = actor.ID
	default:
		filter.InternID = actor.ID
	}

	apps, err := s.store.Applications().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Mine returns the caller's own applications (received ones for a company).
func (s *applicationService) Mine(ctx context.Context, actor *model.User) ([]model.Application, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	filter := repository.ApplicationFilter{InternID: actor.ID}
	if actor.Role == model.RoleEntreprise {
		filter = repository.ApplicationFilter{CompanyID: actor.ID}
	}

	apps, err := s.store.Applications().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListByOffer returns the applications of an offer. Only the owning company or an admin may read them.
func (s *applicationService) ListByOffer(ctx context.Context, actor *model.User, offerID uuid.UUID) ([]model.Application, error) {
	offer, err := s.store.Offers().FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	if !actor.CanManage(offer.CompanyID) {
		return nil, apperrors.ErrForbidden
	}

	apps, err := s.store.Applications().List(ctx, repository.ApplicationFilter{OfferID: offerID})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListByIntern returns an intern's applications, to that intern or an admin.
func (s *applicationService) ListByIntern(ctx context.Context, actor *model.User, internID uuid.UUID) ([]model.Application, error) {
	if !actor.CanManage(internID) {
		return nil, apperrors.ErrForbidden
	}

	apps, err := s.store.Applications().List(ctx, repository.ApplicationFilter{InternID: internID})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Get returns one application to its intern, its company or an admin.
func (s *applicationService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Application, error) {
	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(app.InternID) && !actor.CanManage(app.CompanyID) {
		return nil, apperrors.ErrForbidden
	}
	return app, nil
}

// UpdateStatus accepts or rejects a pending application.
func (s *applicationService) UpdateStatus(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Terminal() {
		return nil, apperrors.NewValidationError(apperrors.FieldError{Field: "status", Msg: "status must be accepted or rejected"})
	}

	app, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(app.CompanyID) {
		return nil, apperrors.ErrForbidden
	}
	if app.Status.Terminal() {
		return nil, apperrors.ErrInvalidTransition
	}

	moved, err := s.store.Applications().UpdateStatusIfPending(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !moved {
		// decided concurrently by someone else
		return nil, apperrors.ErrInvalidTransition
	}

	metrics.RecordTransition(string(status))
	app.Status = status
	return app, nil
}

// Withdraw deletes an application in any status. Only its intern or an admin may do so.
func (s *applicationService) Withdraw(ctx context.Context, actor *model.User, id uuid.UUID) error {
	var internID uuid.UUID
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		app, err := tx.Applications().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrApplicationNotFound
			}
			return fmt.Errorf("find application: %w", err)
		}
		if !actor.CanManage(app.InternID) {
			return apperrors.ErrForbidden
		}
		internID = app.InternID

		if err := tx.Applications().Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrApplicationNotFound
			}
			return fmt.Errorf("delete application: %w", err)
		}
		if err := tx.Users().RemoveAppliedOffer(ctx, app.InternID, app.OfferID); err != nil {
			return fmt.Errorf("pull applied offer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, userCacheKey(internID))
	return nil
}

func (s *applicationService) find(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	app, err := s.store.Applications().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}
