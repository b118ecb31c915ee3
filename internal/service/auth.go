package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown email, a wrong password or an inactive account.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidToken is returned for malformed, expired or already used tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenRevoked is returned for an access token that was logged out.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrRepositoryNotConfigured is returned when persistence is disabled.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
)

// AuthService manages accounts and the sessions issued to them.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*dto.TokenPair, *model.User, error)
	Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error)
	// Refresh trades a refresh token for a new pair. The old refresh token stops working.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	// Authenticate returns the identity carried by a live access token.
	Authenticate(ctx context.Context, accessToken string) (*dto.Claims, error)
	// Logout revokes both tokens of one session.
	Logout(ctx context.Context, accessToken, refreshToken string) error
	// LogoutAll revokes every refresh token of a user and reports how many were live.
	LogoutAll(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// AuthServiceImpl implements AuthService with bcrypt password hashes.
type AuthServiceImpl struct {
	users  repository.UserRepositoryInterface
	tokens TokenService
}

// NewAuthService creates an AuthService with a TokenService over tokenRepo.
func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	tokenRepo repository.TokenRepositoryInterface,
	cfg config.AuthConfig,
) AuthService {
	return NewAuthServiceWithTokenService(userRepo, NewTokenService(tokenRepo, TokenConfigFrom(cfg)))
}

// NewAuthServiceWithTokenService creates an AuthService sharing tokens.
func NewAuthServiceWithTokenService(userRepo repository.UserRepositoryInterface, tokens TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{users: userRepo, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// decoyHash is compared against when the account does not exist, so an
// unknown email costs as much as a wrong password.
var decoyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("nutriplan-decoy"), bcrypt.DefaultCost)
	return hash
})

// Register creates an active account with the user role and signs it in.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, fullName string) (*dto.TokenPair, *model.User, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("look up %s: %w", email, err)
	}
	if existing != nil {
		return nil, nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: string(hash),
		Roles:    []string{model.RoleUser},
		Profile:  model.Profile{FullName: strings.TrimSpace(fullName)},
		Active:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrUserExists
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Login checks the password and opens a new session. Sessions on other
// devices stay valid.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	user, err := s.users.FindByEmailForAuth(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil || !user.Active {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh implements AuthService. Roles and email in the new pair are read
// from the account, not copied from the old token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.Redeem(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidToken
	}
	return s.tokens.Issue(ctx, user)
}

// Authenticate implements AuthService.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (*dto.Claims, error) {
	return s.tokens.VerifyAccess(ctx, accessToken)
}

// Logout implements AuthService. Both revocations are attempted even when
// the first fails.
func (s *AuthServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	log := logger.FromContext(ctx)

	var errs []error
	if accessToken != "" {
		if err := s.tokens.RevokeAccess(ctx, accessToken); err != nil {
			log.Warn().Err(err).Msg("Revoking access token failed")
			errs = append(errs, fmt.Errorf("revoke access token: %w", err))
		}
	}
	if refreshToken != "" {
		if err := s.tokens.RevokeRefresh(ctx, refreshToken); err != nil {
			log.Warn().Err(err).Msg("Revoking refresh token failed")
			errs = append(errs, fmt.Errorf("revoke refresh token: %w", err))
		}
	}
	return errors.Join(errs...)
}

// LogoutAll implements AuthService.
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.tokens.RevokeAll(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return n, nil
}
