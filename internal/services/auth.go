package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/courseprogress-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type JWTClaims struct {
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// AuthService verifies bearer tokens minted by the identity service. The
// subject claim carries the user id.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
}

func NewAuthService(baseLog *logger.Logger, jwtSecretKey string) AuthService {
	return &authService{
		log:          baseLog.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return ctx, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	rd := &ctxutil.RequestData{UserID: userID}
	if sid, err := uuid.Parse(claims.SessionID); err == nil {
		rd.SessionID = sid
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
