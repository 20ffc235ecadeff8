package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// upper bounds applied to parameters read back from stored digests
const (
	maxMemoryKB   = 1 << 20
	maxIterations = 16
)

type Params struct {
	MemoryKB    uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

var DefaultParams = Params{
	MemoryKB:    64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLen:     16,
	KeyLen:      32,
}

// Hasher produces argon2id digests in PHC format:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// Digests beginning with "$2" are bcrypt and are verified as such.
type Hasher struct {
	params Params

	dummyOnce sync.Once
	dummy     string
}

func NewHasher(p Params) *Hasher {
	if p.SaltLen == 0 {
		p.SaltLen = DefaultParams.SaltLen
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: p}
}

func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	start := time.Now()
	key := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.MemoryKB, h.params.Parallelism, h.params.KeyLen)
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKB, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches digest. Malformed digests never match.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if ctx.Err() != nil || plaintext == "" {
		return false
	}

	start := time.Now()
	defer func() {
		metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()

	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	}

	p, salt, key, err := decodeArgon2(digest)
	if err != nil {
		return false
	}
	other := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.MemoryKB, p.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1
}

// VerifyDummy spends the same work as a real Verify. Used when the account
// does not exist so response time does not reveal it.
func (h *Hasher) VerifyDummy(ctx context.Context, plaintext string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = h.Hash(context.Background(), "dummy-password")
	})
	_ = h.Verify(ctx, plaintext, h.dummy)
}

func decodeArgon2(digest string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, errors.New("not an argon2id digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errors.New("unsupported argon2 version")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKB, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("parse params: %w", err)
	}
	if p.MemoryKB == 0 || p.MemoryKB > maxMemoryKB || p.Iterations == 0 || p.Iterations > maxIterations || p.Parallelism == 0 {
		return p, nil, nil, errors.New("argon2 params out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errors.New("decode key")
	}
	return p, salt, key, nil
}
