package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// Operator roles carried in the token's user_role claim.
const (
	RoleAdmin    = "admin"
	RoleInvestor = "investor"
)

type JWTToken struct {
	config *Config
}

func NewJWTToken(config *Config) *JWTToken {
	return &JWTToken{config: config}
}

type tokenClaims struct {
	jwt.StandardClaims
	UserID   int64  `json:"user_id"`
	Role     string `json:"user_role"`
	Verified bool   `json:"user_verified"`
	Exp      int64  `json:"exp"`
}

type TokenObject struct {
	UserID   int64  `json:"user_id"`
	Role     string `json:"user_role"`
	Verified bool   `json:"user_verified"`
}

// IsAdmin reports whether the token carries the operator role.
func (u TokenObject) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (j *JWTToken) CreateToken(user TokenObject) (string, error) {
	ttl := time.Duration(j.config.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	claims := tokenClaims{
		UserID:   user.UserID,
		Role:     user.Role,
		Verified: user.Verified,
		Exp:      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(j.config.SigningKey))
}

func (j *JWTToken) VerifyToken(tokenString string) (TokenObject, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected token signing method")
		}
		return []byte(j.config.SigningKey), nil
	})
	if err != nil {
		return TokenObject{}, fmt.Errorf("invalid session token, %v", err.Error())
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return TokenObject{}, fmt.Errorf("invalid session token, unexpected claims")
	}

	if claims.Exp < time.Now().Unix() {
		return TokenObject{}, fmt.Errorf("session token is expired")
	}

	return TokenObject{
		UserID:   claims.UserID,
		Role:     claims.Role,
		Verified: claims.Verified,
	}, nil
}
