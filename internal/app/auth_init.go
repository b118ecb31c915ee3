// Package app provides authentication initialization.
package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// seedAdmin makes sure the configured admin account exists and holds the
// admin role. Nothing happens unless both email and password are set.
func seedAdmin(userRepo repository.UserRepositoryInterface, cfg config.AuthConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	if existing != nil {
		if slices.Contains(existing.Roles, model.RoleAdmin) {
			return nil
		}
		roles := append(slices.Clone(existing.Roles), model.RoleAdmin)
		if _, err := userRepo.SetRoles(ctx, existing.ID, roles); err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
		log.Info().Str("email", email).Msg("Granted admin role")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Email:    email,
		Password: string(hashed),
		Roles:    []string{model.RoleUser, model.RoleAdmin},
		Profile:  model.Profile{FullName: "Administrator"},
		Active:   true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("email", email).Msg("Created admin user")
	return nil
}
