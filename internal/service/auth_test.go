package service

import (
	"context"
	"testing"
	"time"

	"github.com/lendme/lendme-go/internal/crypto"
	"github.com/lendme/lendme-go/internal/model"
	"github.com/lendme/lendme-go/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository enforcing email uniqueness the
// way the real store's unique key does.
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

func newTestAuthService() *AuthService {
	return NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)
}

func TestRegister_EmptyEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "",
		Password: "password123",
	})

	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "test@example.com",
		Password: "",
	})

	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	req := model.RegisterRequest{Email: "alice@x.com", Password: "secret123"}

	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if err != ErrEmailTaken {
		t.Errorf("second Register: expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_TokenCarriesIdentity(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "alice@x.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := crypto.ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("token user_id = %d, want %d", claims.UserID, resp.User.ID)
	}
	if claims.Email != "alice@x.com" {
		t.Errorf("token email = %q, want alice@x.com", claims.Email)
	}
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService()

	reg, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "alice@x.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@x.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.ID != reg.User.ID {
		t.Errorf("login user id = %d, want %d", resp.User.ID, reg.User.ID)
	}

	claims, err := crypto.ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != reg.User.ID || claims.Email != "alice@x.com" {
		t.Errorf("claims = {%d %q}, want {%d alice@x.com}", claims.UserID, claims.Email, reg.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService()

	if _, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "alice@x.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@x.com",
		Password: "not-the-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@x.com",
		Password: "secret123",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_EmptyEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "",
		Password: "password123",
	})

	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestLogin_EmptyPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "test@example.com",
		Password: "",
	})

	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.GetUser(context.Background(), 99)
	if err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetUser_Found(t *testing.T) {
	svc := newTestAuthService()

	reg, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "alice@x.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.GetUser(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.Email != "alice@x.com" {
		t.Errorf("email = %q, want alice@x.com", user.Email)
	}
}
