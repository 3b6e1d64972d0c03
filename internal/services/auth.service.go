package services

import (
	"chip8arcade/config"
	"context"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer        = "chip8arcade"
	DefaultTokenExpiry = 24 * time.Hour
)

// AuthService signs and verifies the HS256 bearer tokens that identify users.
// The subject claim carries the user id.
type AuthService struct {
	secret []byte
	log    logger.Logger
}

func NewAuthService(cfg config.Config) *AuthService {
	return &AuthService{
		secret: []byte(cfg.JWTSecret),
		log:    logger.New("AuthService"),
	}
}

func (as *AuthService) IssueToken(userID uuid.UUID, expiry time.Duration) (string, error) {
	log := as.log.Function("IssueToken")

	if len(as.secret) == 0 {
		return "", log.ErrMsg("jwt secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, nil
}

// ValidateToken verifies signature, issuer and lifetime and returns the user id.
func (as *AuthService) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	log := as.log.TraceFromContext(ctx).Function("ValidateToken")

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, log.ErrMsg(
					"unexpected signing method: " + fmt.Sprintf("%v", token.Header["alg"]),
				)
			}
			return as.secret, nil
		},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, err
	}

	if !token.Valid {
		return uuid.Nil, log.ErrMsg("token is invalid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, log.Err("token subject is not a user id", err)
	}

	return userID, nil
}
