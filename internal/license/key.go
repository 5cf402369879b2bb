package license

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openpos/tillpoint/internal/errs"
)

// PremiumEdition is the edition claim a valid license key must carry.
const PremiumEdition = "premium"

var errInvalidKey = errors.New("invalid license key")

// KeyClaims are the custom claims embedded in a license key.
type KeyClaims struct {
	// Edition names the purchased edition; only "premium" exists today.
	Edition string `json:"edition"`
	// Store optionally names the store the key was issued for. Informational.
	Store string `json:"store,omitempty"`
	jwt.RegisteredClaims
}

// KeyVerifier validates vendor-issued license keys. Keys are HMAC-signed
// JWTs with no expiry: a purchase is perpetual.
type KeyVerifier struct {
	secret []byte
}

// NewKeyVerifier creates a verifier for keys signed with the given secret.
func NewKeyVerifier(secret string) *KeyVerifier {
	return &KeyVerifier{secret: []byte(secret)}
}

// Verify parses and validates a license key, returning its claims.
// Any malformed, mis-signed, or non-premium key is a ValidationError.
func (v *KeyVerifier) Verify(key string) (*KeyClaims, error) {
	token, err := jwt.ParseWithClaims(
		key,
		&KeyClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return v.secret, nil
		},
	)
	if err != nil {
		return nil, errs.Validation("license key", errInvalidKey.Error())
	}

	claims, ok := token.Claims.(*KeyClaims)
	if !ok || !token.Valid || claims.Edition != PremiumEdition {
		return nil, errs.Validation("license key", errInvalidKey.Error())
	}
	return claims, nil
}

// SignKey issues a license key for the given store. Used by vendor tooling
// and tests; the POS itself only verifies.
func SignKey(secret, store string) (string, error) {
	claims := &KeyClaims{
		Edition: PremiumEdition,
		Store:   store,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign license key: %w", err)
	}
	return signed, nil
}
