package hooks

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signerIssuer = "welcome"

// DeliveryClaims are carried in the signature header. BodySHA256 binds the
// token to the exact bytes posted.
type DeliveryClaims struct {
	BodySHA256 string `json:"body_sha256"`
	jwt.RegisteredClaims
}

// Signer issues HS256 tokens for hook deliveries so recipients can verify
// the sender with a shared key.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(key string) (*Signer, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	return &Signer{key: []byte(key), now: time.Now}, nil
}

func (s *Signer) Sign(event Event, body []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, DeliveryClaims{
		BodySHA256: bodyDigest(body),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   signerIssuer,
			Subject:  event.Type,
			ID:       event.ID,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign delivery token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and that it was issued for body.
func (s *Signer) Verify(tokenString string, body []byte) (*DeliveryClaims, error) {
	claims := &DeliveryClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.key, nil
	}, jwt.WithIssuer(signerIssuer))
	if err != nil {
		return nil, fmt.Errorf("invalid delivery token: %w", err)
	}
	if claims.BodySHA256 != bodyDigest(body) {
		return nil, errors.New("delivery token does not match body")
	}
	return claims, nil
}

func bodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
