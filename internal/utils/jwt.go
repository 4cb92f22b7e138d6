package utils

import (
	"errors" // Error values
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrInvalidToken is returned for tokens that verify but carry no subject
var ErrInvalidToken = errors.New("invalid token")

// JWT Claims
type Claims struct {
	Username             string `json:"username"` // Custom claim for the username
	jwt.RegisteredClaims        // Standard JWT claims, Subject holds the user id
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	secret []byte           // HMAC key
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenIssuer creates a TokenIssuer for the given secret and lifetime
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateJWT creates a signed token for the user
func (t *TokenIssuer) GenerateJWT(userID, username string) (string, error) {
	now := t.now()
	// Set token claims
	claims := Claims{
		Username: username, // Custom claim for username
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,                            // Subject is the user id
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)), // Token expires after ttl
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(t.secret)                        // Sign the token with the secret
}

// ParseJWT parses and validates a token string, pinning the algorithm to HS256
func (t *TokenIssuer) ParseJWT(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return t.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg confusion
		jwt.WithExpirationRequired(),                                 // Tokens must expire
		jwt.WithTimeFunc(t.now),                                      // Same clock as issuance
	)
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
