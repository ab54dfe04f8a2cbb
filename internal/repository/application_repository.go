package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/model"
)

// ApplicationFilter narrows an application listing. Zero values match everything.
type ApplicationFilter struct {
	OfferID   uuid.UUID
	InternID  uuid.UUID
	CompanyID uuid.UUID
	Status    model.ApplicationStatus
}

// StatusCounts holds the number of applications per status for one offer.
type StatusCounts struct {
	Pending  int64
	Accepted int64
	Rejected int64
}

// Total returns the sum of all statuses.
func (c StatusCounts) Total() int64 {
	return c.Pending + c.Accepted + c.Rejected
}

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByOfferAndIntern(ctx context.Context, offerID, internID uuid.UUID) (*model.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.Application, error)
	CountByStatus(ctx context.Context, offerID uuid.UUID) (StatusCounts, error)
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOffer(ctx context.Context, offerID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOrphans(ctx context.Context) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// populated loads the offer and both users of each application.
func (r *applicationRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Offer").
		Preload("Intern").
		Preload("Intern.Education").
		Preload("Company")
}

// Create creates a new application. The (offer, intern) unique index rejects duplicates.
func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Omit("Offer", "Intern", "Company").Create(app).Error
}

// FindByID finds an application by ID with its relations.
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.populated(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByOfferAndIntern finds the application of an intern for an offer.
func (r *applicationRepository) FindByOfferAndIntern(ctx context.Context, offerID, internID uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).
		Where("offer_id = ? AND intern_id = ?", offerID, internID).
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns matching applications, newest first.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]model.Application, error) {
	q := r.populated(ctx)
	if filter.OfferID != uuid.Nil {
		q = q.Where("offer_id = ?", filter.OfferID)
	}
	if filter.InternID != uuid.Nil {
		q = q.Where("intern_id = ?", filter.InternID)
	}
	if filter.CompanyID != uuid.Nil {
		q = q.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var apps []model.Application
	if err := q.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// CountByStatus counts the applications of an offer per status.
func (r *applicationRepository) CountByStatus(ctx context.Context, offerID uuid.UUID) (StatusCounts, error) {
	var rows []struct {
		Status model.ApplicationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Application{}).
		Select("status, COUNT(*) AS count").
		Where("offer_id = ?", offerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case model.ApplicationStatusPending:
			counts.Pending = row.Count
		case model.ApplicationStatusAccepted:
			counts.Accepted = row.Count
		case model.ApplicationStatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

// UpdateStatusIfPending moves a pending application to status.
// It reports false when the application was not pending anymore.
func (r *applicationRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ? AND status = ?", id, model.ApplicationStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete removes a single application.
func (r *applicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Application{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByOffer removes every application referencing the offer.
func (r *applicationRepository) DeleteByOffer(ctx context.Context, offerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("offer_id = ?", offerID).Delete(&model.Application{})
	return res.RowsAffected, res.Error
}

// DeleteByUser removes every application where the user is the intern or the company.
func (r *applicationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("intern_id = ? OR company_id = ?", userID, userID).
		Delete(&model.Application{})
	return res.RowsAffected, res.Error
}

// DeleteOrphans removes applications whose offer or intern no longer exists.
func (r *applicationRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("offer_id NOT IN (?) OR intern_id NOT IN (?)",
			r.db.Model(&model.Offer{}).Select("id"),
			r.db.Model(&model.User{}).Select("id")).
		Delete(&model.Application{})
	return res.RowsAffected, res.Error
}
