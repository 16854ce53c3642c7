package biz

import (
	"context"
	"testing"
	"time"

	v1 "moviehub/api/movie/v1"
	"moviehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	UserRepo
	users    map[string]*User
	profiles map[string]*Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*User{}, profiles: map[string]*Profile{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) EnsureProfile(_ context.Context, userID string) (*Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	p := &Profile{UserID: userID}
	r.profiles[userID] = p
	return p, nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	profiles := NewProfileUseCase(fakeTx{}, repo, nil, nil, log.DefaultLogger)
	uc := NewUserUseCase(&conf.Auth{JWTSecret: "secret", TokenTTL: conf.NewDuration(time.Hour)},
		fakeTx{}, repo, profiles, log.DefaultLogger)

	user, token, err := uc.Register(ctx, &Registration{
		Username: " alice ",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want trimmed", user.Username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if _, ok := repo.profiles[user.ID]; !ok {
		t.Error("profile was not created by the post-registration hook")
	}

	claims := &UserClaims{}
	parsed, err := jwtv5.ParseWithClaims(token.Token, claims, func(*jwtv5.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Username != "alice" {
		t.Errorf("claims = %+v, want subject %s", claims, user.ID)
	}

	if _, _, err := uc.Register(ctx, &Registration{Username: "alice", Email: "a@b.c", Password: "another pass"}); !v1.IsUsernameTaken(err) {
		t.Errorf("second Register() error = %v, want username taken", err)
	}
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, v1.ErrorUserNotFound("user %q not found", username)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	profiles := NewProfileUseCase(fakeTx{}, repo, nil, nil, log.DefaultLogger)
	uc := NewUserUseCase(&conf.Auth{JWTSecret: "secret"}, fakeTx{}, repo, profiles, log.DefaultLogger)

	registered, _, err := uc.Register(ctx, &Registration{Username: "alice", Email: "a@b.c", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		ok       bool
	}{
		{name: "valid", username: " alice ", password: "correct horse", ok: true},
		{name: "wrong password", username: "alice", password: "battery staple"},
		{name: "unknown user", username: "bob", password: "correct horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := uc.Login(ctx, tt.username, tt.password)
			if !tt.ok {
				if !v1.IsUnauthorized(err) {
					t.Fatalf("Login() error = %v, want unauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if user.ID != registered.ID || token.Token == "" {
				t.Fatalf("Login() = %+v, %+v", user, token)
			}
			if !token.ExpiresAt.After(time.Now().Add(23 * time.Hour)) {
				t.Errorf("ExpiresAt = %v, want the default day-long lifetime", token.ExpiresAt)
			}
		})
	}
}
