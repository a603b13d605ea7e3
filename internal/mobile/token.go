package mobile

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long a shell token stays valid.
const TokenTTL = 72 * time.Hour

var errInvalidClaims = errors.New("invalid token claims")

// Claims identify the shell a mobile client drives.
type Claims struct {
	ShellID string `json:"sid"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for the shell with the given id.
func (s *Signer) Issue(shellID string) (string, error) {
	now := s.now()
	claims := Claims{
		ShellID: shellID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates tokenStr and returns the shell id it carries.
func (s *Signer) Parse(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ShellID == "" {
		return "", errInvalidClaims
	}
	return claims.ShellID, nil
}
