package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

// Claims is the payload of a session token.
type Claims struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	Role         models.Role `json:"role"`
	AllowedLangs []string    `json:"allowed_langs"`
	jwt.RegisteredClaims
}

// CanEditLang reports whether the holder of c may edit lang. A nil c is an
// anonymous caller and may edit nothing.
func CanEditLang(c *Claims, lang string) bool {
	if c == nil {
		return false
	}
	return models.CanEdit(c.Role, c.AllowedLangs, lang)
}

// TokenService signs and verifies stateless session tokens.
type TokenService struct {
	secretKey  []byte
	ttl        time.Duration
	cookieName string
	logger     *zap.Logger
	now        func() time.Time
}

// NewTokenService requires a non-empty secret; there is no fallback key.
func NewTokenService(secretKey string, ttl time.Duration, cookieName string, logger *zap.Logger) (*TokenService, error) {
	if secretKey == "" {
		return nil, errors.New("token signing secret is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenService{
		secretKey:  []byte(secretKey),
		ttl:        ttl,
		cookieName: cookieName,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// TTL is the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// CookieName is the name of the session cookie.
func (s *TokenService) CookieName() string {
	return s.cookieName
}

// CreateToken issues a signed token for user.
func (s *TokenService) CreateToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		AllowedLangs: user.AllowedLangs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken returns the claims of a valid token and nil for anything else:
// expired, tampered, malformed or signed with another algorithm.
func (s *TokenService) VerifyToken(tokenString string) *Claims {
	if tokenString == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		s.logger.Debug("Rejected session token", zap.Error(err))
		return nil
	}

	return claims
}

// GetUserFromRequest verifies the session cookie of r, if any.
func (s *TokenService) GetUserFromRequest(r *http.Request) *Claims {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	return s.VerifyToken(cookie.Value)
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a hashed password with a plaintext password
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
