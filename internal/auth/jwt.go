package auth

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written to and required in every access token.
const Issuer = "serena-mcp"

// --- Context Keys ---

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const (
	ClientIDKey contextKey = "clientID"
)

// --- JWT Claims ---

// ClientClaims identifies the caller of the function endpoint.
type ClientClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// NewAccessToken generates a signed HS256 token for clientID.
func NewAccessToken(clientID string, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   clientID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Printf("Error signing JWT token for client %s: %v", clientID, err)
		return "", err
	}

	return signedToken, nil
}

// ParseAccessToken validates the signature, expiry and issuer of tokenString and returns its claims.
func ParseAccessToken(tokenString string, secret string) (*ClientClaims, error) {
	claims := &ClientClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", jwt.ErrTokenInvalidClaims)
	}
	return claims, nil
}
