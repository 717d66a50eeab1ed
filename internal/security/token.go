package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims bind a subject to its role and role discriminator: the email
// for admins, the permanent id for students and teachers.
type SessionClaims struct {
	UserID      string `json:"uid"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	PermanentID string `json:"ip,omitempty"`
	jwt.RegisteredClaims
}

type SessionSubject struct {
	UserID      string
	Role        string
	Email       string
	PermanentID string
}

func GenerateSessionToken(secret string, subject SessionSubject, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := SessionClaims{
		UserID:      subject.UserID,
		Role:        subject.Role,
		Email:       subject.Email,
		PermanentID: subject.PermanentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			Subject:   subject.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// ParseSessionToken verifies signature and expiry as of now.
func ParseSessionToken(tokenStr string, secret string, now time.Time) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
