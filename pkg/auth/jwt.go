package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/optivue/scheduling/internal/config"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// StaffClaims identifies the clinic staff member behind an API call. Tokens
// are issued by the platform's identity service; this engine only validates
// them and reads the claims.
type StaffClaims struct {
	StaffID uuid.UUID
	Name    string
	Role    string
}

type staffJWTClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

type JWTManager struct {
	cfg config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// GenerateToken signs a staff access token. Used by tooling and tests; in
// production tokens come from the identity service sharing the same secret.
func (m *JWTManager) GenerateToken(claims *StaffClaims) (string, error) {
	now := time.Now()

	jwtClaims := staffJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   claims.StaffID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.AccessTokenTTL)),
			// Skew tolerance of 10 seconds handles clock drift between services
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		},
		Name: claims.Name,
		Role: claims.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(m.cfg.Secret))
}

func (m *JWTManager) ValidateToken(tokenString string) (*StaffClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&staffJWTClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*staffJWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	staffID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &StaffClaims{
		StaffID: staffID,
		Name:    claims.Name,
		Role:    claims.Role,
	}, nil
}
