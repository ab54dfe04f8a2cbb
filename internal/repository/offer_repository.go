package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/model"
)

// OfferFilter narrows an offer listing. Zero values match everything.
type OfferFilter struct {
	Search    string
	Location  string
	Payment   model.PaymentKind
	Type      model.WorkType
	Duration  model.DurationBucket
	CompanyID uuid.UUID
	Oldest    bool
}

// OfferRepository defines offer persistence operations.
type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	Update(ctx context.Context, offer *model.Offer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	List(ctx context.Context, filter OfferFilter) ([]model.Offer, error)
	IDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListMissingFacets(ctx context.Context) ([]model.Offer, error)
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new offer repository.
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// Create creates a new offer.
func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	return r.db.WithContext(ctx).Omit("Company", "Applications").Create(offer).Error
}

// Update updates an existing offer.
func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	return r.db.WithContext(ctx).Omit("Company", "Applications").Save(offer).Error
}

// FindByID finds an offer by ID.
func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// List returns offers matching the filter, newest first unless Oldest is set.
func (r *offerRepository) List(ctx context.Context, filter OfferFilter) ([]model.Offer, error) {
	q := r.db.WithContext(ctx).Model(&model.Offer{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(l)+"%")
	}
	if filter.Payment != "" {
		q = q.Where("payment_kind = ?", filter.Payment)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Duration != "" {
		q = q.Where("duration_bucket = ?", filter.Duration)
	}
	if filter.CompanyID != uuid.Nil {
		q = q.Where("company_id = ?", filter.CompanyID)
	}

	order := "created_at DESC"
	if filter.Oldest {
		order = "created_at ASC"
	}

	var offers []model.Offer
	if err := q.Order(order).Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// IDsByCompany lists the ids of every offer owned by a company.
func (r *offerRepository) IDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("company_id = ?", companyID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes the offer row only. Dependent rows are the caller's responsibility.
func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Offer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMissingFacets returns offers stored before facets were normalized.
func (r *offerRepository) ListMissingFacets(ctx context.Context) ([]model.Offer, error) {
	var offers []model.Offer
	if err := r.db.WithContext(ctx).
		Where("type = '' OR type IS NULL OR payment_kind = '' OR payment_kind IS NULL OR duration_bucket = '' OR duration_bucket IS NULL").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}
