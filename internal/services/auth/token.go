package auth

import (
	"errors"
	"strconv"
	"time"

	"gigpay/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const issuerName = "gigpay-api"

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *tokenIssuer) issue(profileID uint) (string, error) {
	if len(t.secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	now := t.now()
	claims := models.ProfileClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuerName,
			Subject:   strconv.FormatUint(uint64(profileID), 10),
		},
		ProfileID: profileID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *tokenIssuer) parse(tokenStr string) (*models.ProfileClaims, error) {
	if len(t.secret) == 0 {
		return nil, errors.New("JWT secret not configured")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &models.ProfileClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuerName), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.ProfileClaims)
	if !ok || !token.Valid || claims.ProfileID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
