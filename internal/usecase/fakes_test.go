package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/guide-api/internal/auth"
	"github.com/ErlanBelekov/guide-api/internal/clock"
	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/repository"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/stretchr/testify/require"
)

// ---- in-memory user store ----

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	err    error // returned by every call when set
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*domain.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, in domain.UserCreate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.emailOwnerLocked(in.Email) != 0 {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	u := &domain.User{
		ID:             r.nextID,
		Email:          in.Email,
		Name:           in.Name,
		HashedPassword: in.HashedPassword,
		IsAdmin:        in.IsAdmin,
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(_ context.Context, id int64, upd domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Email != nil {
		if owner := r.emailOwnerLocked(*upd.Email); owner != 0 && owner != id {
			return nil, domain.ErrEmailTaken
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.HashedPassword != nil {
		u.HashedPassword = *upd.HashedPassword
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(_ context.Context, in repository.ListUsersInput) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.User
	for _, u := range r.users {
		if u.ID > in.AfterID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > in.Limit {
		out = out[:in.Limit]
	}
	return out, nil
}

func (r *memUserRepo) delete(id int64) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
}

func (r *memUserRepo) emailOwnerLocked(email string) int64 {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u.ID
		}
	}
	return 0
}

// ---- recording mailer ----

type sentMail struct {
	kind  string
	to    string
	token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, token: token})
	return m.err
}

func (m *recordingMailer) SendVerification(_ context.Context, _ *domain.User, to, token string) error {
	return m.record("verification", to, token)
}

func (m *recordingMailer) SendEmailChange(_ context.Context, _ *domain.User, to, token string) error {
	return m.record("email_change", to, token)
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, user *domain.User, token string) error {
	return m.record("password_reset", user.Email, token)
}

func (m *recordingMailer) last(t *testing.T, kind string) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i]
		}
	}
	t.Fatalf("no %s mail sent", kind)
	return sentMail{}
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ---- wiring ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

var (
	t0       = time.Date(2026, 5, 25, 15, 0, 0, 0, time.UTC)
	testTTLs = usecase.TokenTTLs{
		Access:        15 * time.Minute,
		Refresh:       30 * 24 * time.Hour,
		EmailVerify:   48 * time.Hour,
		EmailChange:   24 * time.Hour,
		PasswordReset: time.Hour,
	}
	testHashParams = auth.Params{MemoryKB: 1024, Iterations: 1, Parallelism: 1}
)

type env struct {
	users  *memUserRepo
	mailer *recordingMailer
	clock  *clock.Fixed
	codec  *auth.Codec
	hasher *auth.Hasher
	auth   *usecase.AuthUsecase
	gate   *usecase.Gate
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		users:  newMemUserRepo(),
		mailer: &recordingMailer{},
		clock:  clock.NewFixed(t0),
		hasher: auth.NewHasher(testHashParams),
	}
	e.codec = auth.NewCodec([]byte(testJWTKey), e.clock)

	uc, err := usecase.NewAuthUsecase(e.users, e.hasher, e.codec, e.mailer, testTTLs, discardLogger())
	require.NoError(t, err)
	e.auth = uc
	e.gate = usecase.NewGate(e.codec, e.users)
	return e
}

func (e *env) register(t *testing.T, email, password string, admin bool) *domain.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), usecase.RegisterInput{
		Email:    email,
		Name:     "Test",
		Password: password,
		IsAdmin:  admin,
	})
	require.NoError(t, err)
	return u
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errStoreDown = errors.New("db down")
