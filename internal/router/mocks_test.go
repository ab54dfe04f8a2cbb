package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"internhub/internal/auth"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, string, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*model.User)
	return user, args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	args := m.Called(ctx, claims)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

// MockUserService is a mock implementation of service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	args := m.Called(ctx, actor)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, actor *model.User, id uuid.UUID, upd service.UserUpdate) (*model.User, error) {
	return m.user(m.Called(ctx, actor, id, upd))
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor *model.User, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockUserService) AddEducation(ctx context.Context, actor *model.User, userID uuid.UUID, in service.EducationInput) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, in))
}

func (m *MockUserService) UpdateEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID, in service.EducationInput) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, educationID, in))
}

func (m *MockUserService) DeleteEducation(ctx context.Context, actor *model.User, userID, educationID uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, educationID))
}

func (m *MockUserService) AddProject(ctx context.Context, actor *model.User, userID uuid.UUID, in service.ProjectInput) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, in))
}

func (m *MockUserService) UpdateProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID, in service.ProjectInput) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, projectID, in))
}

func (m *MockUserService) DeleteProject(ctx context.Context, actor *model.User, userID, projectID uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, actor, userID, projectID))
}

// MockOfferService is a mock implementation of service.OfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) CreateOffer(ctx context.Context, actor *model.User, companyID uuid.UUID, in service.OfferInput) (*model.Offer, error) {
	args := m.Called(ctx, actor, companyID, in)
	offer, _ := args.Get(0).(*model.Offer)
	return offer, args.Error(1)
}

func (m *MockOfferService) ListOffers(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, error) {
	args := m.Called(ctx, filter)
	offers, _ := args.Get(0).([]model.Offer)
	return offers, args.Error(1)
}

func (m *MockOfferService) GetOffer(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	args := m.Called(ctx, id)
	offer, _ := args.Get(0).(*model.Offer)
	return offer, args.Error(1)
}

func (m *MockOfferService) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]model.Offer, error) {
	args := m.Called(ctx, companyID)
	offers, _ := args.Get(0).([]model.Offer)
	return offers, args.Error(1)
}

func (m *MockOfferService) UpdateOffer(ctx context.Context, actor *model.User, id uuid.UUID, upd service.OfferUpdate) (*model.Offer, error) {
	args := m.Called(ctx, actor, id, upd)
	offer, _ := args.Get(0).(*model.Offer)
	return offer, args.Error(1)
}

func (m *MockOfferService) DeleteOffer(ctx context.Context, actor *model.User, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockOfferService) OfferDetails(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*service.OfferDetails, error) {
	args := m.Called(ctx, actor, id, status)
	details, _ := args.Get(0).(*service.OfferDetails)
	return details, args.Error(1)
}

func (m *MockOfferService) OfferSummary(ctx context.Context, actor *model.User, id uuid.UUID) (*service.OfferSummary, error) {
	args := m.Called(ctx, actor, id)
	summary, _ := args.Get(0).(*service.OfferSummary)
	return summary, args.Error(1)
}

// MockApplicationService is a mock implementation of service.ApplicationService
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) apps(args mock.Arguments) ([]model.Application, error) {
	apps, _ := args.Get(0).([]model.Application)
	return apps, args.Error(1)
}

func (m *MockApplicationService) app(args mock.Arguments) (*model.Application, error) {
	app, _ := args.Get(0).(*model.Application)
	return app, args.Error(1)
}

func (m *MockApplicationService) Apply(ctx context.Context, actor *model.User, offerID uuid.UUID) (*model.Application, error) {
	return m.app(m.Called(ctx, actor, offerID))
}

func (m *MockApplicationService) List(ctx context.Context, actor *model.User, filter repository.ApplicationFilter) ([]model.Application, error) {
	return m.apps(m.Called(ctx, actor, filter))
}

func (m *MockApplicationService) Mine(ctx context.Context, actor *model.User) ([]model.Application, error) {
	return m.apps(m.Called(ctx, actor))
}

func (m *MockApplicationService) ListByOffer(ctx context.Context, actor *model.User, offerID uuid.UUID) ([]model.Application, error) {
	return m.apps(m.Called(ctx, actor, offerID))
}

func (m *MockApplicationService) ListByIntern(ctx context.Context, actor *model.User, internID uuid.UUID) ([]model.Application, error) {
	return m.apps(m.Called(ctx, actor, internID))
}

func (m *MockApplicationService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Application, error) {
	return m.app(m.Called(ctx, actor, id))
}

func (m *MockApplicationService) UpdateStatus(ctx context.Context, actor *model.User, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error) {
	return m.app(m.Called(ctx, actor, id, status))
}

func (m *MockApplicationService) Withdraw(ctx context.Context, actor *model.User, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
