package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ErlanBelekov/guide-api/internal/domain"
	"github.com/ErlanBelekov/guide-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/guide-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type fakeUserUsecase struct {
	getUser    func(ctx context.Context, id int64) (*domain.User, error)
	listUsers  func(ctx context.Context, afterID int64, limit int) (*usecase.ListUsersResult, error)
	changeName func(ctx context.Context, user *domain.User, name string) (*domain.User, error)
	register   func(ctx context.Context, in usecase.RegisterInput) (*domain.User, error)
}

func (f *fakeUserUsecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return f.getUser(ctx, id)
}

func (f *fakeUserUsecase) ListUsers(ctx context.Context, afterID int64, limit int) (*usecase.ListUsersResult, error) {
	return f.listUsers(ctx, afterID, limit)
}

func (f *fakeUserUsecase) ChangeName(ctx context.Context, user *domain.User, name string) (*domain.User, error) {
	return f.changeName(ctx, user, name)
}

func (f *fakeUserUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*domain.User, error) {
	return f.register(ctx, in)
}

func newUserEngine(uc *fakeUserUsecase) *gin.Engine {
	h := handler.NewUserHandler(uc, uc, testLogger)

	r := gin.New()
	r.GET("/users/me", authMW, h.Me)
	r.PATCH("/users/me/name", authMW, h.ChangeName)
	r.GET("/users/:id", h.Get)
	r.GET("/users", h.List)
	r.POST("/users", h.Create)
	return r
}

func TestListUsers_PassesCursorAndReportsNext(t *testing.T) {
	uc := &fakeUserUsecase{
		listUsers: func(_ context.Context, after int64, limit int) (*usecase.ListUsersResult, error) {
			if after != 10 || limit != 2 {
				t.Errorf("after=%d limit=%d, want 10 and 2", after, limit)
			}
			return &usecase.ListUsersResult{
				Users:     []*domain.User{{ID: 11}, {ID: 12}},
				NextAfter: 12,
			}, nil
		},
	}
	w := request(newUserEngine(uc), http.MethodGet, "/users?after=10&limit=2", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Users     []map[string]any `json:"users"`
		NextAfter *int64           `json:"next_after"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Users) != 2 {
		t.Errorf("got %d users, want 2", len(body.Users))
	}
	if body.NextAfter == nil || *body.NextAfter != 12 {
		t.Errorf("next_after = %v, want 12", body.NextAfter)
	}
}

func TestListUsers_LastPageHasNullCursor(t *testing.T) {
	uc := &fakeUserUsecase{
		listUsers: func(context.Context, int64, int) (*usecase.ListUsersResult, error) {
			return &usecase.ListUsersResult{Users: []*domain.User{}}, nil
		},
	}
	w := request(newUserEngine(uc), http.MethodGet, "/users", "", "")

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["next_after"] != nil {
		t.Errorf("next_after = %v, want null", body["next_after"])
	}
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"not a number", "/users/abc", nil, http.StatusBadRequest},
		{"zero", "/users/0", nil, http.StatusBadRequest},
		{"missing", "/users/5", domain.ErrUserNotFound, http.StatusNotFound},
		{"found", "/users/5", nil, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeUserUsecase{
				getUser: func(_ context.Context, id int64) (*domain.User, error) {
					if tc.err != nil {
						return nil, tc.err
					}
					return &domain.User{ID: id}, nil
				},
			}
			w := request(newUserEngine(uc), http.MethodGet, tc.path, "", "")
			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	w := request(newUserEngine(&fakeUserUsecase{}), http.MethodGet, "/users/me", "", "user")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["email"] != regularUser.Email {
		t.Errorf("email = %v, want %s", body["email"], regularUser.Email)
	}
}

func TestMe_Anonymous_Returns401(t *testing.T) {
	w := request(newUserEngine(&fakeUserUsecase{}), http.MethodGet, "/users/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestChangeName_MissingName_Returns400(t *testing.T) {
	w := request(newUserEngine(&fakeUserUsecase{}), http.MethodPatch, "/users/me/name", `{}`, "user")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != "Missing arguments" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChangeName_Success(t *testing.T) {
	uc := &fakeUserUsecase{
		changeName: func(_ context.Context, u *domain.User, name string) (*domain.User, error) {
			out := *u
			out.Name = name
			return &out, nil
		},
	}
	w := request(newUserEngine(uc), http.MethodPatch, "/users/me/name", `{"name":"Renamed"}`, "user")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["name"] != "Renamed" {
		t.Errorf("name = %v", body["name"])
	}
}

func TestCreateUser_ForwardsAdminFlag(t *testing.T) {
	uc := &fakeUserUsecase{
		register: func(_ context.Context, in usecase.RegisterInput) (*domain.User, error) {
			if !in.IsAdmin {
				t.Error("is_admin not forwarded")
			}
			return &domain.User{ID: 3, Email: in.Email, IsAdmin: in.IsAdmin}, nil
		},
	}
	w := request(newUserEngine(uc), http.MethodPost, "/users",
		`{"email":"new@x.com","password":"long-enough","is_admin":true}`, "")
	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
}
