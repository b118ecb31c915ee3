package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/repository"
)

const tokenIssuer = "nutriplan"

// Audiences keep access and refresh tokens apart even when both are signed
// with the same secret.
const (
	audienceAccess  = "nutriplan:access"
	audienceRefresh = "nutriplan:refresh"
)

// tokenClaims is the JWT payload: the caller identity plus the registered claims.
type tokenClaims struct {
	dto.Claims
	jwt.RegisteredClaims
}

// TokenService issues and revokes the JWT pairs behind a session.
//
// Refresh tokens are single use: Redeem consumes the stored record, so a
// replayed refresh token is rejected. Logged out access tokens are
// remembered by jti until they would have expired anyway.
type TokenService interface {
	Issue(ctx context.Context, user *model.User) (*dto.TokenPair, error)
	VerifyAccess(ctx context.Context, accessToken string) (*dto.Claims, error)
	Redeem(ctx context.Context, refreshToken string) (*dto.Claims, error)
	RevokeAccess(ctx context.Context, accessToken string) error
	RevokeRefresh(ctx context.Context, refreshToken string) error
	RevokeAll(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// TokenConfig holds signing keys and lifetimes.
type TokenConfig struct {
	SecretKey        string
	RefreshSecretKey string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

// TokenConfigFrom extracts the token settings of cfg.
func TokenConfigFrom(cfg config.AuthConfig) TokenConfig {
	return TokenConfig{
		SecretKey:        cfg.JWTSecretKey,
		RefreshSecretKey: cfg.JWTRefreshSecret,
		AccessTokenTTL:   cfg.AccessTokenTTL,
		RefreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

type tokenService struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokens     repository.TokenRepositoryInterface
	now        func() time.Time
}

// NewTokenService creates a TokenService keeping its records in tokens.
func NewTokenService(tokens repository.TokenRepositoryInterface, cfg TokenConfig) TokenService {
	return newTokenService(tokens, cfg, time.Now)
}

func newTokenService(tokens repository.TokenRepositoryInterface, cfg TokenConfig, now func() time.Time) *tokenService {
	return &tokenService{
		accessKey:  []byte(cfg.SecretKey),
		refreshKey: []byte(cfg.RefreshSecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		tokens:     tokens,
		now:        now,
	}
}

// Issue signs a new pair for user and records the refresh token.
func (s *tokenService) Issue(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	if user == nil || user.ID.IsZero() {
		return nil, errors.New("issue tokens: user has no id")
	}

	now := s.now()
	access, _, err := s.sign(user, audienceAccess, s.accessKey, now, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExpiry, err := s.sign(user, audienceRefresh, s.refreshKey, now, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	record := &model.Token{
		UserID:    user.ID,
		Kind:      model.TokenKindRefresh,
		Key:       digest(refresh),
		ExpiresAt: refreshExpiry,
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// VerifyAccess checks signature, audience and expiry, then the revocation list.
func (s *tokenService) VerifyAccess(ctx context.Context, accessToken string) (*dto.Claims, error) {
	claims, err := s.parse(accessToken, audienceAccess, s.accessKey)
	if err != nil {
		return nil, err
	}

	revoked, err := s.tokens.Exists(ctx, model.TokenKindRevoked, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return &claims.Claims, nil
}

// Redeem consumes a refresh token and returns the identity it was issued to.
func (s *tokenService) Redeem(ctx context.Context, refreshToken string) (*dto.Claims, error) {
	claims, err := s.parse(refreshToken, audienceRefresh, s.refreshKey)
	if err != nil {
		return nil, err
	}

	record, err := s.tokens.Consume(ctx, model.TokenKindRefresh, digest(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if record == nil || record.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	return &claims.Claims, nil
}

// RevokeAccess remembers the token's jti until it expires. Tokens that
// already expired need no record.
func (s *tokenService) RevokeAccess(ctx context.Context, accessToken string) error {
	claims, err := s.parse(accessToken, audienceAccess, s.accessKey)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.tokens.Save(ctx, &model.Token{
		UserID:    claims.UserID,
		Kind:      model.TokenKindRevoked,
		Key:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// RevokeRefresh drops the stored refresh token, if any.
func (s *tokenService) RevokeRefresh(ctx context.Context, refreshToken string) error {
	_, err := s.tokens.Consume(ctx, model.TokenKindRefresh, digest(refreshToken))
	return err
}

// RevokeAll drops every refresh token of userID and reports how many there were.
func (s *tokenService) RevokeAll(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.tokens.DeleteByUser(ctx, userID, model.TokenKindRefresh)
}

func (s *tokenService) sign(user *model.User, audience string, key []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiry := now.Add(ttl)
	claims := tokenClaims{
		Claims: dto.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Roles:  user.Roles,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID.Hex(),
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	return signed, expiry, err
}

func (s *tokenService) parse(raw, audience string, key []byte) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.UserID.IsZero() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// digest keys a refresh token record without storing the token.
func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
