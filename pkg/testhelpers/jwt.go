// Package testhelpers provides utilities for testing taskify components.
package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestSigningSecret is the HS256 secret used by GenerateTestJWT.
const TestSigningSecret = "taskify-test-secret"

// TestIssuer is the iss claim used by GenerateTestJWT.
const TestIssuer = "taskify-test"

// GenerateTestJWT creates an HS256 token signed with TestSigningSecret for
// the given user. It expires one hour from now.
func GenerateTestJWT(userID, email string) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iss":   TestIssuer,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(TestSigningSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(userID, email string) string {
	return "Bearer " + GenerateTestJWT(userID, email)
}
