// internals/features/users/auth/service/token_service.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"kostku_backend/internals/configs"
	authModel "kostku_backend/internals/features/users/auth/model"
)

const (
	accessTTLDefault = 24 * time.Hour
	expirySkew       = 30 * time.Second
)

var (
	ErrTokenInvalid = errors.New("token tidak valid")
	ErrTokenExpired = errors.New("token sudah kadaluarsa")
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// AccessClaims = isi access token yang dipakai middleware.
type AccessClaims struct {
	UserID    uuid.UUID
	Role      string
	ExpiresAt time.Time
}

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

func accessTTL() time.Duration {
	if configs.JWTAccessTTL > 0 {
		return configs.JWTAccessTTL
	}
	return accessTTLDefault
}

// IssueAccessToken: HS256 dengan klaim id, role, user_name, iat, exp.
func IssueAccessToken(secret string, u *authModel.UserModel, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":        u.UserID.String(),
		"role":      u.UserRole,
		"user_name": u.UserName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken memverifikasi signature lalu exp (toleransi 30 detik).
func ParseAccessToken(secret, raw string, now time.Time) (*AccessClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}); err != nil {
		return nil, ErrTokenInvalid
	}

	expRaw, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	exp := time.Unix(int64(expRaw), 0).UTC()
	if now.After(exp.Add(expirySkew)) {
		return nil, ErrTokenExpired
	}

	idRaw, _ := claims["id"].(string)
	id, err := uuid.Parse(strings.TrimSpace(idRaw))
	if err != nil || id == uuid.Nil {
		return nil, ErrTokenInvalid
	}
	role, _ := claims["role"].(string)

	return &AccessClaims{
		UserID:    id,
		Role:      strings.ToLower(strings.TrimSpace(role)),
		ExpiresAt: exp,
	}, nil
}

// blacklistTTL: sisa umur token + 1 menit; 2 menit bila token tidak bisa dibaca.
func blacklistTTL(secret, raw string, now time.Time) time.Duration {
	claims, err := ParseAccessToken(secret, raw, now)
	if err != nil {
		return 2 * time.Minute
	}
	if until := claims.ExpiresAt.Sub(now); until > 0 {
		return until + time.Minute
	}
	return time.Minute
}
