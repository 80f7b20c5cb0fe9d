package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charles-oliveira/web-2/apperr"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/charles-oliveira/web-2/models"
)

// ProvisionUser creates a user and its default settings in one transaction.
func (s *Storage) ProvisionUser(ctx context.Context, username string) (models.User, models.UserSettings, error) {
	name, err := models.ValidateUsername(username)
	if err != nil {
		return models.User{}, models.UserSettings{}, err
	}
	now, stamp := s.timestamp()
	user := models.User{Username: name, CreatedAt: now}
	var settings models.UserSettings

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, s.rebind(`
			INSERT INTO users (username, created_at) VALUES (?, ?) RETURNING id`),
			name, stamp,
		).Scan(&user.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperr.Wrap(apperr.Validation, err, "username %q is taken", name)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		settings = models.DefaultSettings(user.ID)
		settings.CreatedAt, settings.UpdatedAt = now, now
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO user_settings (user_id, language, dark_mode, email_notifications,
			                           push_notifications, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			settings.UserID, settings.Language, settings.DarkMode, settings.EmailNotifications,
			settings.PushNotifications, stamp, stamp,
		)
		if err != nil {
			return fmt.Errorf("failed to create settings for user %d: %w", user.ID, err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, models.UserSettings{}, err
	}
	s.log.InfoContext(ctx, "user provisioned", logger.FieldEntityID, user.ID, "username", name)
	return user, settings, nil
}

// GetUser returns a provisioned user by id.
func (s *Storage) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, s.rebind(`SELECT id, username, created_at FROM users WHERE id = ?`), id).
		Scan(&u.ID, &u.Username, timeValue{&u.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.New(apperr.NotFound, "user %d not found", id)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}
