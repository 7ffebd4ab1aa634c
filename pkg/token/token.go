package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/studentprofile/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Claims is the canonical payload for every issued token. Subject holds the account id.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewManager(secret string, expiry time.Duration, issuer string) *Manager {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

func (m *Manager) Issue(userID, role, email string) (string, error) {
	now := m.now()
	claims := Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. An empty token yields ErrUnauthorized,
// anything else that does not verify yields ErrInvalidToken.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, apperror.ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(apperror.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, apperror.ErrInvalidToken
	}

	return claims, nil
}
