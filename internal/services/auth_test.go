package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

func signToken(t *testing.T, secret string, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret")
	user := uuid.New()
	tok := signToken(t, "secret", user, time.Minute)
	ctx, err := svc.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.UserID(ctx); got != user {
		t.Fatalf("user: want=%s got=%s", user, got)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret")
	expired := signToken(t, "secret", uuid.New(), -time.Minute)
	foreign := signToken(t, "other-secret", uuid.New(), time.Minute)
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))

	for name, tok := range map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"expired":    expired,
		"foreign":    foreign,
		"no subject": noSubject,
	} {
		if _, err := svc.SetContextFromToken(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: want ErrInvalidToken got=%v", name, err)
		}
	}
}
