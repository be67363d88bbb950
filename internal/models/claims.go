package models

import "github.com/golang-jwt/jwt/v5"

// ProfileClaims is the JWT payload identifying the calling profile.
type ProfileClaims struct {
	jwt.RegisteredClaims
	ProfileID uint `json:"profile_id"`
}
