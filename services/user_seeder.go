package services

import (
	"time"

	"squares-app-go/logging"
	"squares-app-go/models"
)

// UserSeeder creates the default commissioner account in development so the
// admin endpoints are usable on a fresh database.
type UserSeeder struct {
	userRepo UserRepository
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(userRepo UserRepository) *UserSeeder {
	return &UserSeeder{
		userRepo: userRepo,
	}
}

// SeedCommissioner creates the commissioner account if it does not exist
func (s *UserSeeder) SeedCommissioner(email, password string) error {
	if existing, err := s.userRepo.GetUserByEmail(email); err == nil && existing != nil {
		return nil
	}

	user := &models.User{
		ID:        1,
		Name:      "Commissioner",
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := user.HashPassword(password); err != nil {
		logging.Errorf("Failed to hash commissioner password: %v", err)
		return err
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logging.Errorf("Failed to create commissioner %s: %v", email, err)
		return err
	}

	logging.Infof("Seeded commissioner account %s", email)
	return nil
}
