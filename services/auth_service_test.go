package services

import (
	"errors"
	"testing"

	"squares-app-go/models"
)

type memUserRepo struct {
	byEmail map[string]*models.User
	byID    map[int]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[int]*models.User),
	}
}

func (r *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *memUserRepo) GetUserByID(id int) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (r *memUserRepo) CreateUser(user *models.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func seedCommissioner(t *testing.T, repo *memUserRepo, password string) *models.User {
	t.Helper()
	user := &models.User{ID: 1, Name: "Commissioner", Email: "boss@example.com"}
	if err := user.HashPassword(password); err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := repo.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	repo := newMemUserRepo()
	seedCommissioner(t, repo, "hunter2")
	auth := NewAuthService(repo, "test-secret")

	resp, err := auth.Login("boss@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
	if resp.User.Password != "" {
		t.Error("auth response leaked password hash")
	}

	user, err := auth.GetUserFromToken(resp.Token)
	if err != nil {
		t.Fatalf("GetUserFromToken: %v", err)
	}
	if user.ID != 1 || user.Email != "boss@example.com" {
		t.Errorf("token resolved to wrong user: %+v", user)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemUserRepo()
	seedCommissioner(t, repo, "hunter2")
	auth := NewAuthService(repo, "test-secret")

	if _, err := auth.Login("boss@example.com", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, err := auth.Login("nobody@example.com", "hunter2"); err == nil {
		t.Error("unknown email accepted")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newMemUserRepo()
	user := seedCommissioner(t, repo, "hunter2")

	auth := NewAuthService(repo, "secret-a")
	other := NewAuthService(repo, "secret-b")

	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token validated under a different secret")
	}
	if _, err := auth.ValidateToken("garbage"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestUserSeederIdempotent(t *testing.T) {
	repo := newMemUserRepo()
	seeder := NewUserSeeder(repo)

	if err := seeder.SeedCommissioner("boss@example.com", "hunter2"); err != nil {
		t.Fatalf("SeedCommissioner: %v", err)
	}
	seeded := repo.byEmail["boss@example.com"]
	if seeded == nil {
		t.Fatal("commissioner not created")
	}
	if !seeded.CheckPassword("hunter2") {
		t.Error("seeded password does not verify")
	}

	// Seeding again leaves the existing account untouched.
	if err := seeder.SeedCommissioner("boss@example.com", "different"); err != nil {
		t.Fatalf("second SeedCommissioner: %v", err)
	}
	if !repo.byEmail["boss@example.com"].CheckPassword("hunter2") {
		t.Error("re-seeding overwrote the existing account")
	}
}
