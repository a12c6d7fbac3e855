package plaid

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const webhookMaxAge = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("missing webhook verification header")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleWebhook     = errors.New("webhook verification token too old")
	ErrBodyMismatch     = errors.New("webhook body hash mismatch")
)

type webhookClaims struct {
	RequestBodySHA256 string `json:"request_body_sha256"`
	jwt.StandardClaims
}

// VerifyWebhook checks the provider's signed envelope: the verification
// header carries a JWT whose request_body_sha256 claim must match the raw
// body, and whose issued-at must be recent. Payload contents must not be
// trusted before this passes.
func VerifyWebhook(secret string, body []byte, verificationHeader string) error {
	if verificationHeader == "" {
		return ErrMissingSignature
	}

	claims := &webhookClaims{}
	token, err := jwt.ParseWithClaims(verificationHeader, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidSignature
	}

	if claims.IssuedAt == 0 || time.Since(time.Unix(claims.IssuedAt, 0)) > webhookMaxAge {
		return ErrStaleWebhook
	}

	sum := sha256.Sum256(body)
	if claims.RequestBodySHA256 != hex.EncodeToString(sum[:]) {
		return ErrBodyMismatch
	}
	return nil
}
