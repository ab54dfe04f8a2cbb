package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/repository"
)

func TestOfferService_CreateOffer(t *testing.T) {
	companyID := uuid.New()
	company := &model.User{ID: companyID, Role: model.RoleEntreprise}

	tests := []struct {
		name          string
		actor         *model.User
		input         OfferInput
		setupMock     func(*MockStore)
		expectedError error
		check         func(t *testing.T, o *model.Offer)
	}{
		{
			name:  "facets derived from free text",
			actor: company,
			input: OfferInput{Title: "Backend intern", Location: "Paris", Duration: "6 months", Payment: "800 EUR / month"},
			setupMock: func(s *MockStore) {
				s.UserRepo.On("FindByID", mock.Anything, companyID).Return(company, nil)
				s.OfferRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Offer")).Return(nil)
			},
			check: func(t *testing.T, o *model.Offer) {
				assert.Equal(t, companyID, o.CompanyID)
				assert.Equal(t, model.WorkTypeInOffice, o.Type)
				assert.Equal(t, model.PaymentPaid, o.PaymentKind)
				assert.Equal(t, model.Duration6Months, o.DurationBucket)
				assert.True(t, o.Stipend.Valid)
			},
		},
		{
			name:  "explicit facets win",
			actor: company,
			input: OfferInput{Title: "Designer", Location: "Lyon", Type: model.WorkTypeRemote, Payment: "unpaid"},
			setupMock: func(s *MockStore) {
				s.UserRepo.On("FindByID", mock.Anything, companyID).Return(company, nil)
				s.OfferRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, o *model.Offer) {
				assert.Equal(t, model.WorkTypeRemote, o.Type)
				assert.Equal(t, model.PaymentUnpaid, o.PaymentKind)
				assert.Equal(t, model.DurationUndisclosed, o.DurationBucket)
			},
		},
		{
			name:  "unknown company",
			actor: company,
			input: OfferInput{Title: "x"},
			setupMock: func(s *MockStore) {
				s.UserRepo.On("FindByID", mock.Anything, companyID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:  "other company is forbidden",
			actor: &model.User{ID: uuid.New(), Role: model.RoleEntreprise},
			input: OfferInput{Title: "x"},
			setupMock: func(s *MockStore) {
				s.UserRepo.On("FindByID", mock.Anything, companyID).Return(company, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:  "missing title and bad enum",
			actor: company,
			input: OfferInput{Type: "onsite"},
			setupMock: func(s *MockStore) {
				s.UserRepo.On("FindByID", mock.Anything, companyID).Return(company, nil)
			},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store)
			service := NewOfferService(store, nil)

			offer, err := service.CreateOffer(context.Background(), tt.actor, companyID, tt.input)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError), "got %v", err)
				assert.Nil(t, offer)
			} else {
				require.NoError(t, err)
				tt.check(t, offer)
			}
			store.assertExpectations(t)
		})
	}
}

func TestOfferService_ListOffersRejectsUnknownFacet(t *testing.T) {
	service := NewOfferService(newMockStore(), nil)

	_, err := service.ListOffers(context.Background(), repository.OfferFilter{Payment: "sometimes"})

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "payment", verr.Fields[0].Field)
}

func TestOfferService_UpdateOfferRecomputesFacets(t *testing.T) {
	companyID := uuid.New()
	offerID := uuid.New()
	store := newMockStore()
	store.OfferRepo.On("FindByID", mock.Anything, offerID).Return(&model.Offer{
		ID:             offerID,
		Title:          "Intern",
		Duration:       "3 months",
		DurationBucket: model.Duration3Months,
		Type:           model.WorkTypeRemote,
		PaymentKind:    model.PaymentUnpaid,
		CompanyID:      companyID,
	}, nil)
	store.OfferRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Offer")).Return(nil)
	service := NewOfferService(store, nil)

	duration := "1 year"
	offer, err := service.UpdateOffer(context.Background(), &model.User{ID: companyID, Role: model.RoleEntreprise}, offerID, OfferUpdate{Duration: &duration})

	require.NoError(t, err)
	assert.Equal(t, model.DurationYear, offer.DurationBucket)
	assert.Equal(t, model.WorkTypeRemote, offer.Type)
	store.assertExpectations(t)
}

func TestOfferService_DeleteOfferCascades(t *testing.T) {
	companyID := uuid.New()
	offerID := uuid.New()
	internID := uuid.New()
	store := newMockStore()
	store.OfferRepo.On("FindByID", mock.Anything, offerID).Return(&model.Offer{ID: offerID, CompanyID: companyID}, nil)
	store.AppRepo.On("List", mock.Anything, repository.ApplicationFilter{OfferID: offerID}).
		Return([]model.Application{{OfferID: offerID, InternID: internID}}, nil)
	store.AppRepo.On("DeleteByOffer", mock.Anything, offerID).Return(int64(1), nil)
	store.UserRepo.On("RemoveAppliedOfferEverywhere", mock.Anything, offerID).Return(int64(1), nil)
	store.OfferRepo.On("Delete", mock.Anything, offerID).Return(nil)
	cacheClient, rec := newRecordingCache()
	service := NewOfferService(store, cacheClient)

	err := service.DeleteOffer(context.Background(), &model.User{ID: companyID, Role: model.RoleEntreprise}, offerID)

	require.NoError(t, err)
	assert.Equal(t, 1, store.Transactions)
	store.assertExpectations(t)
	assert.ElementsMatch(t, []string{offerCacheKey(offerID), userCacheKey(internID)}, rec.keys())
}

func TestOfferService_DeleteOfferStopsOnFailure(t *testing.T) {
	offerID := uuid.New()
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	store := newMockStore()
	store.OfferRepo.On("FindByID", mock.Anything, offerID).Return(&model.Offer{ID: offerID, CompanyID: uuid.New()}, nil)
	store.AppRepo.On("List", mock.Anything, mock.Anything).Return([]model.Application{}, nil)
	store.AppRepo.On("DeleteByOffer", mock.Anything, offerID).Return(int64(0), nil)
	store.UserRepo.On("RemoveAppliedOfferEverywhere", mock.Anything, offerID).Return(int64(0), errors.New("deadlock"))
	service := NewOfferService(store, nil)

	err := service.DeleteOffer(context.Background(), admin, offerID)

	assert.ErrorContains(t, err, "deadlock")
	store.OfferRepo.AssertNotCalled(t, "Delete", mock.Anything, offerID)
}

func TestOfferService_OfferSummary(t *testing.T) {
	companyID := uuid.New()
	offerID := uuid.New()
	store := newMockStore()
	store.OfferRepo.On("FindByID", mock.Anything, offerID).Return(&model.Offer{ID: offerID, Title: "Data intern", CompanyID: companyID}, nil)
	store.AppRepo.On("CountByStatus", mock.Anything, offerID).Return(repository.StatusCounts{Pending: 2, Accepted: 1, Rejected: 3}, nil)
	service := NewOfferService(store, nil)

	summary, err := service.OfferSummary(context.Background(), &model.User{ID: companyID, Role: model.RoleEntreprise}, offerID)

	require.NoError(t, err)
	assert.Equal(t, &OfferSummary{OfferID: offerID, Title: "Data intern", Total: 6, Pending: 2, Accepted: 1, Rejected: 3}, summary)
}

func TestOfferService_OfferDetailsFiltersByStatus(t *testing.T) {
	companyID := uuid.New()
	offerID := uuid.New()
	store := newMockStore()
	store.OfferRepo.On("FindByID", mock.Anything, offerID).Return(&model.Offer{ID: offerID, CompanyID: companyID}, nil)
	store.AppRepo.On("List", mock.Anything, repository.ApplicationFilter{OfferID: offerID, Status: model.ApplicationStatusAccepted}).
		Return([]model.Application{{ID: uuid.New(), Status: model.ApplicationStatusAccepted}}, nil)
	service := NewOfferService(store, nil)
	owner := &model.User{ID: companyID, Role: model.RoleEntreprise}

	details, err := service.OfferDetails(context.Background(), owner, offerID, model.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Len(t, details.Applications, 1)

	_, err = service.OfferDetails(context.Background(), &model.User{ID: uuid.New(), Role: model.RoleIntern}, offerID, "")
	assert.Equal(t, apperrors.ErrForbidden, err)

	_, err = service.OfferDetails(context.Background(), owner, offerID, "archived")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestOfferService_GetOffer(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name          string
		repoErr       error
		expectedError error
	}{
		{name: "found"},
		{name: "missing", repoErr: gorm.ErrRecordNotFound, expectedError: apperrors.ErrOfferNotFound},
		{name: "database failure", repoErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			if tt.repoErr != nil {
				store.OfferRepo.On("FindByID", mock.Anything, id).Return(nil, tt.repoErr)
			} else {
				store.OfferRepo.On("FindByID", mock.Anything, id).Return(&model.Offer{ID: id, Title: "Go intern"}, nil)
			}

			offer, err := NewOfferService(store, nil).GetOffer(context.Background(), id)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.repoErr != nil:
				require.Error(t, err)
				assert.Contains(t, err.Error(), "connection reset")
			default:
				require.NoError(t, err)
				assert.Equal(t, "Go intern", offer.Title)
			}
			store.assertExpectations(t)
		})
	}
}

func TestOfferService_ListByCompany(t *testing.T) {
	companyID := uuid.New()
	store := newMockStore()
	store.OfferRepo.On("List", mock.Anything, repository.OfferFilter{CompanyID: companyID}).
		Return([]model.Offer{{ID: uuid.New(), CompanyID: companyID}}, nil)

	offers, err := NewOfferService(store, nil).ListByCompany(context.Background(), companyID)

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, companyID, offers[0].CompanyID)
	store.assertExpectations(t)
}
