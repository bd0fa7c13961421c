package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lendme/lendme-go/internal/crypto"
	"github.com/lendme/lendme-go/internal/middleware"
	"github.com/lendme/lendme-go/internal/model"
	"github.com/lendme/lendme-go/internal/repository"
	"github.com/lendme/lendme-go/internal/service"
)

// fakeUserRepo is an in-memory credential store enforcing email uniqueness.
type fakeUserRepo struct {
	users  map[string]model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := f.users[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, exists := f.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func newTestAuthHandler() *AuthHandler {
	svc := service.NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
	return NewAuthHandler(svc)
}

func postJSON(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	h := newTestAuthHandler()

	rec := postJSON(h.HandleRegister, "/api/auth/register", "not-json")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRegister_BodyTooLarge(t *testing.T) {
	h := newTestAuthHandler()

	body := `{"email":"alice@x.com","password":"` + strings.Repeat("x", 2<<20) + `"}`
	rec := postJSON(h.HandleRegister, "/api/auth/register", body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleRegister_MissingFields(t *testing.T) {
	h := newTestAuthHandler()

	for _, body := range []string{
		`{"password":"secret123"}`,
		`{"email":"alice@x.com"}`,
		`{}`,
	} {
		rec := postJSON(h.HandleRegister, "/api/auth/register", body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleRegister_Success(t *testing.T) {
	h := newTestAuthHandler()

	rec := postJSON(h.HandleRegister, "/api/auth/register", `{"email":"alice@x.com","password":"secret123"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Errorf("response has no token: %s", rec.Body.String())
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	h := newTestAuthHandler()
	body := `{"email":"alice@x.com","password":"secret123"}`

	if rec := postJSON(h.HandleRegister, "/api/auth/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d, want 201", rec.Code)
	}

	rec := postJSON(h.HandleRegister, "/api/auth/register", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("second register: status = %d, want 409", rec.Code)
	}
}

func TestHandleLogin_MissingFields(t *testing.T) {
	h := newTestAuthHandler()

	rec := postJSON(h.HandleLogin, "/api/auth/login", `{"email":"alice@x.com"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	h := newTestAuthHandler()

	if rec := postJSON(h.HandleRegister, "/api/auth/register", `{"email":"alice@x.com","password":"secret123"}`); rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, want 201", rec.Code)
	}

	rec := postJSON(h.HandleLogin, "/api/auth/login", `{"email":"alice@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleMe_NoAuthContext(t *testing.T) {
	h := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	h.HandleMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleMe_UserGone(t *testing.T) {
	// A valid token whose user no longer exists in the store yields 404.
	h := newTestAuthHandler()

	token, err := crypto.GenerateToken(99, "ghost@x.com", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	protected := middleware.JWTAuth("test-secret")(http.HandlerFunc(h.HandleMe))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
