// Package auth validates access tokens and extracts the caller principal.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/config"
	"github.com/aocampo/invoicer/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Parser verifies HMAC-signed access tokens.
type Parser struct {
	secret []byte
}

func NewParser(cfg config.AuthConfig) *Parser {
	return &Parser{secret: []byte(cfg.AccessSecret)}
}

// Parse verifies the token signature and expiry and returns the principal.
// The subject claim carries the user id.
func (p *Parser) Parse(token string) (model.Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}
	return model.Principal{UserID: userID, Username: c.Username}, nil
}
