package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-liff-api/internal/models"
	appErrors "github.com/noah-isme/schedule-liff-api/pkg/errors"
)

const tokenIssuer = "schedule-liff-api"

// AuthConfig defines the accepted credentials.
type AuthConfig struct {
	APIKey      string
	TokenSecret string
	TokenTTL    time.Duration
}

// AuthService checks bearer credentials: the shared API key or a user scoped
// HS256 token minted by IssueToken.
type AuthService struct {
	config AuthConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	return &AuthService{config: config, now: time.Now, logger: logger}
}

// Enabled reports whether any credential is configured. Without one every
// request is let through.
func (s *AuthService) Enabled() bool {
	return s != nil && (s.config.APIKey != "" || s.config.TokenSecret != "")
}

// Authenticate resolves a bearer credential into a principal.
func (s *AuthService) Authenticate(bearer string) (*models.Principal, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return nil, appErrors.ErrUnauthorized
	}
	if s.config.APIKey != "" && subtle.ConstantTimeCompare([]byte(bearer), []byte(s.config.APIKey)) == 1 {
		return &models.Principal{Kind: models.PrincipalAPIKey}, nil
	}
	if s.config.TokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid api key")
	}

	claims, err := s.ValidateToken(bearer)
	if err != nil {
		return nil, err
	}
	return &models.Principal{Kind: models.PrincipalToken, UserID: claims.UserID}, nil
}

// ValidateToken parses a user scoped token.
func (s *AuthService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// IssueToken mints a token that lets a LIFF session act as userID only.
func (s *AuthService) IssueToken(userID string) (*models.IssuedToken, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingField, "missing user_id")
	}
	if s.config.TokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token issuing is disabled")
	}

	issuedAt := s.now()
	claims := models.TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("user token issued", zap.String("user_id", userID), zap.Time("expires_at", issuedAt.Add(s.config.TokenTTL)))
	return &models.IssuedToken{Token: signed, UserID: userID, ExpiresIn: int64(s.config.TokenTTL.Seconds())}, nil
}
