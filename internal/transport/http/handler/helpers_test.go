package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	regularUser = &domain.User{ID: 1, Email: "user@x.com", Name: "User"}
	adminUser   = &domain.User{ID: 2, Email: "admin@x.com", Name: "Admin", IsAdmin: true, IsVerified: true}
)

// stubGate maps the bearer strings "user" and "admin" to fixed users.
type stubGate struct{}

func (stubGate) lookup(raw string) (*domain.User, error) {
	switch raw {
	case "user":
		return regularUser, nil
	case "admin":
		return adminUser, nil
	}
	return nil, domain.ErrUnauthorized
}

func (g stubGate) AuthenticateRequired(_ context.Context, raw string, _ domain.TokenType) (*domain.User, error) {
	return g.lookup(raw)
}

func (g stubGate) AuthenticateOptional(_ context.Context, raw string, _ domain.TokenType) (*domain.User, error) {
	if raw == "" {
		return nil, nil
	}
	return g.lookup(raw)
}

var (
	authMW    = middleware.Auth(stubGate{}, testLogger)
	optAuthMW = middleware.OptionalAuth(stubGate{}, testLogger)
)

func request(r http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
