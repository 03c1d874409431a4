package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"staffdash/internal/domain"
)

// Claims is what the dashboard reads out of a bearer token
type Claims struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// User returns the operator described by the claims
func (c Claims) User() domain.User {
	return domain.User{
		ID:        c.UserID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
	}
}

// Sign issues an HS256 token for user valid for ttl
func Sign(secret []byte, user domain.User, ttl time.Duration, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"role":      user.Role,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// Verify checks the signature and expiry of a token
func Verify(secret []byte, tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.UnauthorizedError{Msg: "invalid token"}
	}
	return claimsFrom(parsed)
}

// Inspect reads the claims of a token without checking its signature. The
// client only uses it to learn the role and expiry; the server still verifies.
func Inspect(tokenString string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claimsFrom(parsed)
}

func claimsFrom(parsed *jwt.Token) (*Claims, error) {
	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.UnauthorizedError{Msg: "invalid token claims"}
	}

	claims := &Claims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.FirstName, _ = claimsMap["firstName"].(string)
	claims.LastName, _ = claimsMap["lastName"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if claims.UserID == "" {
		return nil, domain.UnauthorizedError{Msg: "invalid token subject"}
	}
	return claims, nil
}
