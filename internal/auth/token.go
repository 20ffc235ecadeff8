package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/clock"
	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed payload of every token the service mints.
type Claims struct {
	jwt.RegisteredClaims
	Type        domain.TokenType `json:"typ"`
	Email       string           `json:"email,omitempty"`
	PasswordTag string           `json:"pwd,omitempty"`
	EmailTag    string           `json:"cur,omitempty"`
}

// Extra carries the per-type claims. They are covered by the signature like
// every other field.
type Extra struct {
	Email       string
	PasswordTag string
	EmailTag    string
}

// Decoded is the verified view of a token.
type Decoded struct {
	Subject     int64
	Type        domain.TokenType
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Email       string
	PasswordTag string
	EmailTag    string
}

// Codec signs and verifies HS256 tokens. It holds no mutable state and is
// safe for concurrent use.
type Codec struct {
	key   []byte
	clock clock.Clock
	opts  []jwt.ParserOption
}

func NewCodec(key []byte, c clock.Clock) *Codec {
	return &Codec{
		key:   key,
		clock: c,
		opts: []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithStrictDecoding(),
			// expiry is checked against the injected clock in Decode
			jwt.WithoutClaimsValidation(),
		},
	}
}

// Encode mints a token for subject. iat is truncated to whole seconds so that
// exp == iat+ttl holds exactly inside the token.
func (c *Codec) Encode(subject int64, typ domain.TokenType, ttl time.Duration, extra Extra) (string, error) {
	if !typ.Valid() {
		return "", fmt.Errorf("encode token: unknown type %q", typ)
	}
	if ttl < time.Second {
		return "", fmt.Errorf("encode token: ttl %s is below one second", ttl)
	}

	now := c.clock.Now().Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:        typ,
		Email:       extra.Email,
		PasswordTag: extra.PasswordTag,
		EmailTag:    extra.EmailTag,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, then expiry, then the type tag.
// A token is expired strictly after exp; at exp it is still accepted.
func (c *Codec) Decode(raw string, expected domain.TokenType) (*Decoded, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.key, nil
	}, c.opts...)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil || !claims.Type.Valid() {
		return nil, domain.ErrInvalidToken
	}
	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return nil, domain.ErrInvalidToken
	}

	if c.clock.Now().After(claims.ExpiresAt.Time) {
		return nil, domain.ErrExpiredToken
	}
	if claims.Type != expected {
		return nil, domain.ErrWrongTokenType
	}

	return &Decoded{
		Subject:     subject,
		Type:        claims.Type,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
		Email:       claims.Email,
		PasswordTag: claims.PasswordTag,
		EmailTag:    claims.EmailTag,
	}, nil
}

// PasswordTag fingerprints a password digest. A reset token carrying the tag
// stops validating as soon as the digest changes.
func PasswordTag(digest string) string {
	return fingerprint(digest)
}

// EmailTag fingerprints the address an account had when an email_change
// token was issued. Once the address moves on, older tokens stop matching.
func EmailTag(email string) string {
	return fingerprint(strings.ToLower(strings.TrimSpace(email)))
}

func fingerprint(v string) string {
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:8])
}
