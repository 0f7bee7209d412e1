package model

import (
	"context"
	"errors"
	"strings"

	"tgadmin/internal/auth"
	"tgadmin/internal/config"
	"tgadmin/internal/entity"

	"gorm.io/gorm"
)

// inviteCodeAttempts bounds collision retries during account provisioning.
const inviteCodeAttempts = 5

// CreateUserAccount provisions a new account: hashes the password, draws an
// invite code that does not collide with an existing one, and persists the
// user. The plaintext password never reaches the repository.
func CreateUserAccount(ctx context.Context, repo Repository, username, password, role string) (*entity.DbUser, error) {
	if repo == nil {
		return nil, errors.New("repository not available")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username must not be empty")
	}
	if role != entity.UserRoleAdmin && role != entity.UserRoleAgent {
		return nil, errors.New("unknown role: " + role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	code, err := uniqueInviteCode(ctx, repo)
	if err != nil {
		return nil, err
	}

	user := &entity.DbUser{
		Username:   username,
		Password:   hash,
		Role:       role,
		InviteCode: code,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// uniqueInviteCode draws codes until one is unused. When every attempt
// collides the last candidate is used anyway, preserving the legacy
// fire-and-forget behaviour on the improbable path.
func uniqueInviteCode(ctx context.Context, repo Repository) (string, error) {
	var code string
	for i := 0; i < inviteCodeAttempts; i++ {
		candidate, err := auth.GenerateInviteCode()
		if err != nil {
			return "", err
		}
		code = candidate

		_, err = repo.GetUserByInviteCode(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
	return code, nil
}

// SeedDefaultAdmin ensures the configured admin account exists.
func SeedDefaultAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" {
		return nil
	}

	_, err := repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err = CreateUserAccount(ctx, repo, username, cfg.AdminPassword, entity.UserRoleAdmin)
		return err
	default:
		return err
	}
}
