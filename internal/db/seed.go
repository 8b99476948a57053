package db

import (
	"context"
	"errors"
	"fmt"
	"securepay/internal/domain"

	"github.com/sirupsen/logrus"
)

var ErrMissingDefaultPassword = errors.New("DEFAULT_PASSWORD is required to seed employee accounts")

// Employee is a pre-provisioned portal account
type Employee struct {
	Email    string
	FullName string
}

// Employees are the accounts created by the seed command
var Employees = []Employee{
	{Email: "john.doe@company.com", FullName: "John Doe"},
	{Email: "jane.smith@company.com", FullName: "Jane Smith"},
	{Email: "michael.johnson@company.com", FullName: "Michael Johnson"},
	{Email: "emma.wilson@company.com", FullName: "Emma Wilson"},
	{Email: "david.brown@company.com", FullName: "David Brown"},
}

// UserWriter is what seeding needs from the store
type UserWriter interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

// PasswordHasher hashes the shared initial password
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SeedEmployees creates every employee account that does not exist yet, all
// with the given password. It returns the emails it created.
func SeedEmployees(ctx context.Context, users UserWriter, hasher PasswordHasher, password string, employees []Employee) ([]string, error) {
	if password == "" {
		return nil, ErrMissingDefaultPassword
	}

	var created []string
	for _, e := range employees {
		exists, err := users.EmailExists(ctx, e.Email)
		if err != nil {
			return created, fmt.Errorf("failed to check %s: %w", e.Email, err)
		}
		if exists {
			logrus.WithField("email", e.Email).Info("User already exists, skipping")
			continue
		}

		hash, err := hasher.Hash(password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %s: %w", e.Email, err)
		}
		if err := users.CreateUser(ctx, &domain.User{Email: e.Email, FullName: e.FullName, PasswordHash: hash}); err != nil {
			return created, fmt.Errorf("failed to create %s: %w", e.Email, err)
		}
		logrus.WithFields(logrus.Fields{"email": e.Email, "full_name": e.FullName}).Info("Created user")
		created = append(created, e.Email)
	}
	return created, nil
}
