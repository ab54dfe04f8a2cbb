package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SaveEducation(ctx context.Context, education *model.Education) error
	DeleteEducation(ctx context.Context, userID, educationID uuid.UUID) error
	SaveProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error

	AddAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error
	RemoveAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error
	RemoveAppliedOfferEverywhere(ctx context.Context, offerID uuid.UUID) (int64, error)
	DeleteDanglingAppliedOffers(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withProfile(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Education").
		Preload("Projects").
		Preload("AppliedOffers")
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Education", "Projects", "AppliedOffers").Create(user).Error
}

// Update saves the user's own columns. Sub-collections are written through their own methods.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Education", "Projects", "AppliedOffers").Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.withProfile(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.withProfile(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes the user with its education, projects and applied-offer rows.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&model.Education{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&model.Project{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", id).Delete(&model.AppliedOffer{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SaveEducation(ctx context.Context, education *model.Education) error {
	return r.db.WithContext(ctx).Save(education).Error
}

func (r *userRepository) DeleteEducation(ctx context.Context, userID, educationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", educationID, userID).
		Delete(&model.Education{}).Error
}

func (r *userRepository) SaveProject(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *userRepository) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", projectID, userID).
		Delete(&model.Project{}).Error
}

// AddAppliedOffer is idempotent: an existing (user, offer) row is left untouched.
func (r *userRepository) AddAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error {
	row := model.AppliedOffer{UserID: userID, OfferID: offerID}
	return r.db.WithContext(ctx).
		Where(model.AppliedOffer{UserID: userID, OfferID: offerID}).
		FirstOrCreate(&row).Error
}

func (r *userRepository) RemoveAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		Delete(&model.AppliedOffer{}).Error
}

func (r *userRepository) RemoveAppliedOfferEverywhere(ctx context.Context, offerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("offer_id = ?", offerID).Delete(&model.AppliedOffer{})
	return res.RowsAffected, res.Error
}

// DeleteDanglingAppliedOffers removes rows whose offer or user no longer exists.
func (r *userRepository) DeleteDanglingAppliedOffers(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("offer_id NOT IN (?) OR user_id NOT IN (?)",
			r.db.Model(&model.Offer{}).Select("id"),
			r.db.Model(&model.User{}).Select("id")).
		Delete(&model.AppliedOffer{})
	return res.RowsAffected, res.Error
}
