// Package auth issues and checks the tokens that let a browser map client
// act on one chat's quiz session.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "todofuken-quiz-bot"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

type JWTAuth struct {
	secret []byte
	ttl    time.Duration
	mapURL string
	now    func() time.Time
}

// NewJWTAuth returns an HS256 signer. mapURL may be empty, MapLink then
// returns the bare token.
func NewJWTAuth(secret string, ttl time.Duration, mapURL string) *JWTAuth {
	return &JWTAuth{
		secret: []byte(secret),
		ttl:    ttl,
		mapURL: mapURL,
		now:    time.Now,
	}
}

// IssueToken signs a token whose subject is chatID.
func (j *JWTAuth) IssueToken(chatID int64) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(chatID, 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies token and returns the chat it was issued for.
func (j *JWTAuth) ParseToken(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	chatID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidToken, claims.Subject)
	}
	return chatID, nil
}

// MapLink returns the map client URL for chatID with a fresh token attached.
func (j *JWTAuth) MapLink(chatID int64) (string, error) {
	token, err := j.IssueToken(chatID)
	if err != nil {
		return "", err
	}
	if j.mapURL == "" {
		return token, nil
	}

	u, err := url.Parse(j.mapURL)
	if err != nil {
		return "", fmt.Errorf("parse map url: %w", err)
	}
	q := u.Query()
	q.Set("chat", strconv.FormatInt(chatID, 10))
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
