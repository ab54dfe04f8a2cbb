package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"internhub/internal/cache"
	apperrors "internhub/internal/errors"
	"internhub/internal/metrics"
	"internhub/internal/model"
	"internhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// UserUpdate is the closed set of profile fields a user may change. Nil fields are left as is.
type UserUpdate struct {
	Name        *string
	Lastname    *string
	Email       *string
	Password    *string
	Phone       *string
	Address     *string
	Industry    *string
	Website     *string
	Linkedin    *string
	Github      *string
	Skills      *[]string
	Description *string
}

// EducationInput holds the fields of an education entry. Nil fields are left as is on update.
type EducationInput struct {
	Diploma    *string
	University *string
	Location   *string
	Date       *string
}

// ProjectInput holds the fields of a project entry. Nil fields are left as is on update.
type ProjectInput struct {
	Title       *string
	Image       *string
	Description *string
	LiveDemo    *string
}

// UserService exposes profile operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, actor *model.User) ([]model.User, error)
	UpdateUser(ctx context.Context, actor *model.User, id uuid.UUID, upd UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, actor *model.User, id uuid.UUID) error

	AddEducation(ctx context.Context, actor *model.User, userID uuid.UUID, in EducationInput) (*model.User, error)
	UpdateEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID, in EducationInput) (*model.User, error)
	DeleteEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID) (*model.User, error)

	AddProject(ctx context.Context, actor *model.User, userID uuid.UUID, in ProjectInput) (*model.User, error)
	UpdateProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID, in ProjectInput) (*model.User, error)
	DeleteProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID) (*model.User, error)
}

type userService struct {
	store repository.Store
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(store repository.Store, cache *cache.Client) UserService {
	return &userService{store: store, cache: cache}
}

// GetUser loads a user with its sub-collections, reading through the cache.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.cache.SetJSON(ctx, userCacheKey(id), user, userCacheTTL)
	return user, nil
}

// ListUsers returns every user. Only admins may list users.
func (s *userService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.store.Users().List(ctx)
}

// UpdateUser applies a partial profile update.
func (s *userService) UpdateUser(ctx context.Context, actor *model.User, id uuid.UUID, upd UserUpdate) (*model.User, error) {
	if !actor.CanManage(id) {
		return nil, apperrors.ErrForbidden
	}
	if err := checkProfile(upd.Password,
		requiredText{"name", upd.Name},
		requiredText{"lastname", upd.Lastname},
		requiredText{"phonenumber", upd.Phone},
	); err != nil {
		return nil, err
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			other, err := s.store.Users().FindByEmail(ctx, email)
			if err == nil && other != nil && other.ID != user.ID {
				return nil, apperrors.ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}
	if upd.Password != nil {
		hashed, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}
	setString(&user.Name, upd.Name)
	setString(&user.Lastname, upd.Lastname)
	setString(&user.Phone, upd.Phone)
	setString(&user.Address, upd.Address)
	setString(&user.Industry, upd.Industry)
	setString(&user.Website, upd.Website)
	setString(&user.Linkedin, upd.Linkedin)
	setString(&user.Github, upd.Github)
	setString(&user.Description, upd.Description)
	if upd.Skills != nil {
		user.Skills = *upd.Skills
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidate(ctx, id)
	return user, nil
}

// DeleteUser removes a user and everything hanging off it in one transaction:
// owned offers (with their applications), applications as intern or company,
// applied-offer rows, education and projects.
func (s *userService) DeleteUser(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if !actor.CanManage(id) {
		return apperrors.ErrForbidden
	}

	var offerIDs, applicantIDs []uuid.UUID
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, id); err != nil {
			return err
		}

		ids, err := tx.Offers().IDsByCompany(ctx, id)
		if err != nil {
			return fmt.Errorf("list offers: %w", err)
		}
		for _, offerID := range ids {
			applicants, err := offerApplicants(ctx, tx, offerID)
			if err != nil {
				return err
			}
			applicantIDs = append(applicantIDs, applicants...)
			if err := deleteOfferCascade(ctx, tx, offerID); err != nil {
				return err
			}
		}
		offerIDs = ids

		if _, err := tx.Applications().DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("delete applications: %w", err)
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	metrics.RecordCascadeDelete("user")
	keys := []string{userCacheKey(id)}
	for _, offerID := range offerIDs {
		keys = append(keys, offerCacheKey(offerID))
	}
	seen := map[uuid.UUID]bool{id: true}
	for _, internID := range applicantIDs {
		if !seen[internID] {
			seen[internID] = true
			keys = append(keys, userCacheKey(internID))
		}
	}
	_ = s.cache.Delete(ctx, keys...)
	return nil
}

// AddEducation appends an education entry to the user's profile.
func (s *userService) AddEducation(ctx context.Context, actor *model.User, userID uuid.UUID, in EducationInput) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		edu := &model.Education{ID: uuid.New(), UserID: user.ID}
		applyEducation(edu, in)
		return s.store.Users().SaveEducation(ctx, edu)
	})
}

// UpdateEducation modifies one education entry located by id.
func (s *userService) UpdateEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID, in EducationInput) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		for i := range user.Education {
			if user.Education[i].ID == educationID {
				applyEducation(&user.Education[i], in)
				return s.store.Users().SaveEducation(ctx, &user.Education[i])
			}
		}
		return fmt.Errorf("education %s: %w", educationID, apperrors.ErrNotFound)
	})
}

// DeleteEducation removes one education entry located by id.
func (s *userService) DeleteEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		for _, edu := range user.Education {
			if edu.ID == educationID {
				return s.store.Users().DeleteEducation(ctx, user.ID, educationID)
			}
		}
		return fmt.Errorf("education %s: %w", educationID, apperrors.ErrNotFound)
	})
}

// AddProject appends a project to the user's profile.
func (s *userService) AddProject(ctx context.Context, actor *model.User, userID uuid.UUID, in ProjectInput) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		project := &model.Project{ID: uuid.New(), UserID: user.ID}
		applyProject(project, in)
		return s.store.Users().SaveProject(ctx, project)
	})
}

// UpdateProject modifies one project located by id.
func (s *userService) UpdateProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID, in ProjectInput) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		for i := range user.Projects {
			if user.Projects[i].ID == projectID {
				applyProject(&user.Projects[i], in)
				return s.store.Users().SaveProject(ctx, &user.Projects[i])
			}
		}
		return fmt.Errorf("project %s: %w", projectID, apperrors.ErrNotFound)
	})
}

// DeleteProject removes one project located by id.
func (s *userService) DeleteProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID) (*model.User, error) {
	return s.editProfile(ctx, actor, userID, func(user *model.User) error {
		for _, project := range user.Projects {
			if project.ID == projectID {
				return s.store.Users().DeleteProject(ctx, user.ID, projectID)
			}
		}
		return fmt.Errorf("project %s: %w", projectID, apperrors.ErrNotFound)
	})
}

// editProfile is the read-modify-write cycle shared by the sub-collection edits.
// Concurrent edits are not detected; the last write wins.
func (s *userService) editProfile(ctx context.Context, actor *model.User, userID uuid.UUID, mutate func(user *model.User) error) (*model.User, error) {
	if !actor.CanManage(userID) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := mutate(user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	return s.load(ctx, userID)
}

// load bypasses the cache so writes always start from the stored document.
func (s *userService) load(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, userCacheKey(id))
}

func applyEducation(edu *model.Education, in EducationInput) {
	setString(&edu.Diploma, in.Diploma)
	setString(&edu.University, in.University)
	setString(&edu.Location, in.Location)
	setString(&edu.Date, in.Date)
}

func applyProject(p *model.Project, in ProjectInput) {
	setString(&p.Title, in.Title)
	setString(&p.Image, in.Image)
	setString(&p.Description, in.Description)
	setString(&p.LiveDemo, in.LiveDemo)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
