package cart

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MaxLines bounds the cart so the cookie token cannot grow without limit.
const MaxLines = 50

// tokenTTL is how long an abandoned cart survives.
const tokenTTL = 7 * 24 * time.Hour

var ErrTooManyLines = errors.New("cart line limit reached")

// Claims carries the cart lines inside a signed token.
type Claims struct {
	Lines Cart `json:"lines"`
	jwt.RegisteredClaims
}

// SecretKey returns the cookie signing secret from environment or a default
func SecretKey() []byte {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "dev-only-secret-change-in-production"
	}
	return []byte(secret)
}

// Encode signs the cart into an opaque token for the cart cookie.
func Encode(c Cart) (string, error) {
	if len(c) > MaxLines {
		return "", ErrTooManyLines
	}

	claims := &Claims{
		Lines: c,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "go-storefront",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(SecretKey())
}

// Decode parses and verifies a cart token. Missing, tampered, expired or
// oversized tokens all yield a fresh empty cart; a broken cookie should never
// break browsing.
func Decode(tokenString string) Cart {
	if tokenString == "" {
		return New()
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return SecretKey(), nil
	})
	if err != nil {
		return New()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Lines == nil || len(claims.Lines) > MaxLines {
		return New()
	}
	return claims.Lines
}
