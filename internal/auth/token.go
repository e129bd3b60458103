// Package auth issues and verifies the bearer tokens that identify users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"blog/internal/middleware"
	"blog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	Issuer   = "blog-api"
	Audience = "blog-client"

	blacklistPrefix = "blacklist:"
)

// Claims are the JWT claims carried by every token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens issues HS256 tokens and checks them against the revocation list.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewTokens builds a token issuer. rdb may be nil, in which case logout
// cannot revoke tokens before they expire.
func NewTokens(secret string, ttl time.Duration, rdb *redis.Client) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, rdb: rdb, now: time.Now}
}

// Issue signs a token whose subject is the user's ID.
func (t *Tokens) Issue(user *models.User) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}

	now := t.now()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        generateJTI(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify parses raw, checks signature, issuer, audience, expiry and revocation.
// Every failure is an Unauthorized AppError.
func (t *Tokens) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	if t.rdb != nil && claims.ID != "" {
		revoked, err := t.rdb.Exists(ctx, blacklistPrefix+claims.ID).Result()
		if err != nil {
			middleware.Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
		} else if revoked > 0 {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return claims, nil
}

// Revoke blacklists the token's ID until it would have expired anyway.
func (t *Tokens) Revoke(ctx context.Context, claims *Claims) error {
	if t.rdb == nil {
		middleware.Logger.WarnContext(ctx, "logout without redis; token stays valid until expiry")
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(t.now())
	if ttl <= 0 {
		return nil
	}
	if err := t.rdb.Set(ctx, blacklistPrefix+claims.ID, claims.Subject, ttl).Err(); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8])
}
