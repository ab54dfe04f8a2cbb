package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internhub/internal/auth"
	apperrors "internhub/internal/errors"
	"internhub/internal/model"
)

func newTestAuthService(store *MockStore, tokens *MockTokenStore) AuthService {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(store, NewUserService(store, nil), jwtService, tokens)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		input         SignupInput
		setupMock     func(*MockUserRepository)
		expectedRole  model.Role
		expectedError error
	}{
		{
			name:  "successful signup defaults to intern",
			input: SignupInput{Name: "Ada", Lastname: "Lovelace", Email: " Ada@Example.com ", Password: "password123", Phone: "0600"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleIntern,
		},
		{
			name:  "company signup",
			input: SignupInput{Name: "Acme", Lastname: "Inc", Email: "hr@acme.com", Password: "password123", Phone: "0600", Role: model.RoleEntreprise},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "hr@acme.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedRole: model.RoleEntreprise,
		},
		{
			name:  "email already taken",
			input: SignupInput{Name: "Ada", Lastname: "L", Email: "taken@example.com", Password: "password123", Phone: "0600"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:  "unique index race",
			input: SignupInput{Name: "Ada", Lastname: "L", Email: "race@example.com", Password: "password123", Phone: "0600"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:          "blank name after trimming",
			input:         SignupInput{Name: "   ", Lastname: "L", Email: "blank@example.com", Password: "password123", Phone: "0600"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "password longer than bcrypt accepts",
			input:         SignupInput{Name: "Ada", Lastname: "L", Email: "long@example.com", Password: strings.Repeat("😀", 20), Phone: "0600"},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "admin cannot self register",
			input:         SignupInput{Name: "Eve", Lastname: "L", Email: "eve@example.com", Password: "password123", Phone: "0600", Role: model.RoleAdmin},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store.UserRepo)
			service := newTestAuthService(store, new(MockTokenStore))

			user, token, err := service.Signup(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.True(t, errors.Is(err, tt.expectedError), "got %v", err)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.input.Email)), user.Email)
				assert.Equal(t, tt.expectedRole, user.Role)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
				assert.True(t, strings.HasPrefix(token, "Bearer "))
			}

			store.assertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	userID := uuid.New()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
					Role:         model.RoleIntern,
				}, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpass1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           userID,
					PasswordHash: string(hashedPassword),
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store.UserRepo)
			service := newTestAuthService(store, new(MockTokenStore))

			user, token, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, userID, user.ID)
			}

			store.assertExpectations(t)
		})
	}
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	tokens := new(MockTokenStore)
	service := newTestAuthService(newMockStore(), tokens)

	claims := &auth.Claims{}
	claims.ID = "jti-1"
	tokens.On("RevokeToken", mock.Anything, "jti-1", mock.AnythingOfType("time.Duration")).Return(nil)

	require.NoError(t, service.Logout(context.Background(), claims))
	tokens.AssertExpectations(t)

	assert.Equal(t, apperrors.ErrUnauthorized, service.Logout(context.Background(), &auth.Claims{}))
}

func TestAuthService_Authenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		revoked       bool
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "known user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Role: model.RoleIntern}, nil)
			},
		},
		{
			name:          "revoked token",
			revoked:       true,
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrUnauthorized,
		},
		{
			name: "user deleted after token was issued",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			tt.setupMock(store.UserRepo)
			tokens := new(MockTokenStore)
			tokens.On("IsRevoked", mock.Anything, "jti-2").Return(tt.revoked, nil)
			service := newTestAuthService(store, tokens)

			claims := &auth.Claims{UserID: userID.String(), Role: string(model.RoleIntern)}
			claims.ID = "jti-2"

			user, err := service.Authenticate(context.Background(), claims)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)
			}
			store.assertExpectations(t)
		})
	}
}

func TestCheckProfile(t *testing.T) {
	blank, name := " \t", "Ada"
	short, long := "password123", strings.Repeat("é", 37)

	tests := []struct {
		name       string
		password   *string
		required   []requiredText
		wantFields map[string]string
	}{
		{name: "absent fields are skipped", required: []requiredText{{"name", nil}}},
		{name: "filled fields", password: &short, required: []requiredText{{"name", &name}}},
		{
			name:     "blank fields and long password",
			password: &long,
			required: []requiredText{{"name", &blank}, {"lastname", &name}, {"phonenumber", &blank}},
			wantFields: map[string]string{
				"name":        "name is required",
				"phonenumber": "phonenumber is required",
				"password":    "password must be at most 72 bytes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkProfile(tt.password, tt.required...)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			got := map[string]string{}
			for _, f := range verr.Fields {
				got[f.Field] = f.Msg
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestHashPassword(t *testing.T) {
	hashed, err := hashPassword("password123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("password123")))

	_, err = hashPassword(strings.Repeat("a", maxPasswordBytes+1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
