package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"internhub/internal/auth"
	apperrors "internhub/internal/errors"
	"internhub/internal/model"
	"internhub/internal/repository"
)

const (
	bcryptCost = 10
	// maxPasswordBytes is the longest input bcrypt hashes.
	maxPasswordBytes = 72
)

// requiredText is a mandatory profile field. A nil value means the field was not submitted.
type requiredText struct {
	field string
	value *string
}

// checkProfile rejects required fields left blank after trimming and passwords bcrypt cannot hash.
func checkProfile(password *string, required ...requiredText) error {
	var fields []apperrors.FieldError
	for _, r := range required {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			fields = append(fields, apperrors.FieldError{Field: r.field, Msg: r.field + " is required"})
		}
	}
	if password != nil && len(*password) > maxPasswordBytes {
		fields = append(fields, passwordTooLong)
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields...)
	}
	return nil
}

var passwordTooLong = apperrors.FieldError{Field: "password", Msg: "password must be at most 72 bytes"}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(passwordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// SignupInput carries the profile submitted at registration.
type SignupInput struct {
	Name        string
	Lastname    string
	Email       string
	Password    string
	Phone       string
	Address     string
	Role        model.Role
	Industry    string
	Website     string
	Linkedin    string
	Github      string
	Skills      []string
	Description string
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (user *model.User, token string, err error)
	Login(ctx context.Context, email, password string) (user *model.User, token string, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error)
}

type authService struct {
	store      repository.Store
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		store:      store,
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Signup creates a new user with a hashed password and returns a bearer token.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if err := checkProfile(&in.Password,
		requiredText{"name", &in.Name},
		requiredText{"lastname", &in.Lastname},
		requiredText{"phonenumber", &in.Phone},
	); err != nil {
		return nil, "", err
	}
	email := normalizeEmail(in.Email)

	role := in.Role
	if role == "" {
		role = model.RoleIntern
	}
	if role != model.RoleIntern && role != model.RoleEntreprise {
		return nil, "", apperrors.NewValidationError(apperrors.FieldError{Field: "role", Msg: "role must be intern or entreprise"})
	}

	existing, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Lastname:     strings.TrimSpace(in.Lastname),
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      in.Address,
		Role:         role,
		Industry:     in.Industry,
		Website:      in.Website,
		Linkedin:     in.Linkedin,
		Github:       in.Github,
		Skills:       in.Skills,
		Description:  in.Description,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates a user and returns a bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Logout revokes the presented token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrUnauthorized
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, claims.Remaining())
}

// Authenticate resolves verified claims back to the user they were issued for.
func (s *authService) Authenticate(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	if claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.ID != "" {
		revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, apperrors.ErrUnauthorized
		}
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
