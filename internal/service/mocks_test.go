package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"internhub/internal/cache"
	"internhub/internal/model"
	"internhub/internal/repository"
)

// delRecorder answers every redis command locally: reads miss and DEL keys are recorded.
type delRecorder struct {
	mu      sync.Mutex
	deleted []string
}

// newRecordingCache returns a cache whose redis client never touches the network.
func newRecordingCache() (*cache.Client, *delRecorder) {
	rec := &delRecorder{}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(rec)
	return cache.NewWithClient(rdb), rec
}

func (r *delRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (r *delRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "del" {
			r.mu.Lock()
			for _, arg := range cmd.Args()[1:] {
				r.deleted = append(r.deleted, fmt.Sprint(arg))
			}
			r.mu.Unlock()
			return nil
		}
		cmd.SetErr(redis.Nil)
		return redis.Nil
	}
}

func (r *delRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (r *delRecorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.deleted...)
}

// MockStore hands out mock repositories and runs transactions inline.
type MockStore struct {
	UserRepo     *MockUserRepository
	OfferRepo    *MockOfferRepository
	AppRepo      *MockApplicationRepository
	Transactions int
}

func newMockStore() *MockStore {
	return &MockStore{
		UserRepo:  new(MockUserRepository),
		OfferRepo: new(MockOfferRepository),
		AppRepo:   new(MockApplicationRepository),
	}
}

func (s *MockStore) Users() repository.UserRepository               { return s.UserRepo }
func (s *MockStore) Offers() repository.OfferRepository             { return s.OfferRepo }
func (s *MockStore) Applications() repository.ApplicationRepository { return s.AppRepo }

func (s *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	s.Transactions++
	return fn(ctx, s)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SaveEducation(ctx context.Context, education *model.Education) error {
	args := m.Called(ctx, education)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteEducation(ctx context.Context, userID, educationID uuid.UUID) error {
	args := m.Called(ctx, userID, educationID)
	return args.Error(0)
}

func (m *MockUserRepository) SaveProject(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockUserRepository) AddAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error {
	args := m.Called(ctx, userID, offerID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveAppliedOffer(ctx context.Context, userID, offerID uuid.UUID) error {
	args := m.Called(ctx, userID, offerID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveAppliedOfferEverywhere(ctx context.Context, offerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeleteDanglingAppliedOffers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) List(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) IDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOfferRepository) ListMissingFacets(ctx context.Context) ([]model.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

// MockApplicationRepository is a mock implementation of ApplicationRepository.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationRepository) FindByOfferAndIntern(ctx context.Context, offerID, internID uuid.UUID) (*model.Application, error) {
	args := m.Called(ctx, offerID, internID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, filter repository.ApplicationFilter) ([]model.Application, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Application), args.Error(1)
}

func (m *MockApplicationRepository) CountByStatus(ctx context.Context, offerID uuid.UUID) (repository.StatusCounts, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(repository.StatusCounts), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApplicationRepository) DeleteByOffer(ctx context.Context, offerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (s *MockStore) assertExpectations(t mock.TestingT) {
	s.UserRepo.AssertExpectations(t)
	s.OfferRepo.AssertExpectations(t)
	s.AppRepo.AssertExpectations(t)
}
