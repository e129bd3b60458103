package auth

import (
	"context"
	"testing"
	"time"

	"blog/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

var alice = &models.User{ID: "user-1", Username: "alice"}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour, nil)

	raw, err := tokens.Issue(alice)
	require.NoError(t, err)

	claims, err := tokens.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestVerifyRejects(t *testing.T) {
	good := NewTokens(testSecret, time.Hour, nil)

	sign := func(claims jwt.Claims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	base := func() Claims {
		now := time.Now()
		return Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		}}
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "not-a-jwt" }},
		{"wrong secret", func() string { return sign(base(), "another-secret-that-is-long-enough!!") }},
		{"wrong issuer", func() string {
			c := base()
			c.Issuer = "someone-else"
			return sign(c, testSecret)
		}},
		{"wrong audience", func() string {
			c := base()
			c.Audience = jwt.ClaimStrings{"other-client"}
			return sign(c, testSecret)
		}},
		{"expired", func() string {
			c := base()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return sign(c, testSecret)
		}},
		{"missing expiry", func() string {
			c := base()
			c.ExpiresAt = nil
			return sign(c, testSecret)
		}},
		{"missing subject", func() string {
			c := base()
			c.Subject = ""
			return sign(c, testSecret)
		}},
		{"none algorithm", func() string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodNone, base()).SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Verify(context.Background(), tt.token())
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeUnauthorized))
		})
	}
}

func TestRevoke(t *testing.T) {
	mr, rdb := newRedis(t)
	tokens := NewTokens(testSecret, time.Hour, rdb)
	ctx := context.Background()

	raw, err := tokens.Issue(alice)
	require.NoError(t, err)
	claims, err := tokens.Verify(ctx, raw)
	require.NoError(t, err)

	require.NoError(t, tokens.Revoke(ctx, claims))
	assert.True(t, mr.Exists(blacklistPrefix+claims.ID))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL(blacklistPrefix+claims.ID).Seconds(), 5)

	_, err = tokens.Verify(ctx, raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")
}

func TestVerifyFailsOpenWhenRedisDown(t *testing.T) {
	mr, rdb := newRedis(t)
	tokens := NewTokens(testSecret, time.Hour, rdb)

	raw, err := tokens.Issue(alice)
	require.NoError(t, err)

	mr.SetError("LOADING")
	_, err = tokens.Verify(context.Background(), raw)
	assert.NoError(t, err)
}

func TestRevokeWithoutRedis(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour, nil)
	assert.NoError(t, tokens.Revoke(context.Background(), &Claims{}))
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour, nil).Issue(alice)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"Bearer a b", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
