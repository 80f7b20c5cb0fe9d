// Package auth issues and verifies the HS256 bearer tokens that identify
// API callers.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/models"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 24 * time.Hour

// Claims is the token payload; the subject mirrors the user id.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies tokens with one shared secret.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret, issuer string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue mints a token for userID.
func (t *Tokens) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", apperr.New(apperr.Validation, "user id must be positive")
	}
	now := t.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies a token and returns the identity it carries. Every failure
// is Unauthorized.
func (t *Tokens) Parse(token string) (models.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return models.Identity{}, apperr.Wrap(apperr.Unauthorized, err, "invalid token")
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return models.Identity{}, apperr.New(apperr.Unauthorized, "invalid token claims")
	}
	return models.Identity{UserID: claims.UserID}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
