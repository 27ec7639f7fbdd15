package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecretKey   = []byte("homecare-bff-development-secret-change-me")
	accessTokenTTL = 72 * time.Hour
)

const tokenIssuer = "homecare-bff"

// ConfigureJWT sets the signing secret and lifetime of session tokens.
func ConfigureJWT(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecretKey = []byte(secret)
	}
	if ttl > 0 {
		accessTokenTTL = ttl
	}
}

// Claims defines the session token claims. UpstreamToken is the bearer token
// the remote API issued at login; it is empty for offline (fallback) sessions.
type Claims struct {
	AccountID     int64  `json:"account_id"`
	RoleID        int64  `json:"role_id"`
	FullName      string `json:"full_name,omitempty"`
	UpstreamToken string `json:"upstream_token,omitempty"`
	Offline       bool   `json:"offline,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a new session token.
func GenerateAccessToken(accountID, roleID int64, fullName, upstreamToken string, offline bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID:     accountID,
		RoleID:        roleID,
		FullName:      fullName,
		UpstreamToken: upstreamToken,
		Offline:       offline,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   Int64ToStr(accountID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token string.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
