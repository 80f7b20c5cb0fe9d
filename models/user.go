package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charles-oliveira/web-2/apperr"
)

const MaxUsernameLen = 150

type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// UserSettings is created alongside every provisioned user.
type UserSettings struct {
	UserID             int64
	Language           string
	DarkMode           bool
	EmailNotifications bool
	PushNotifications  bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultSettings returns the settings a new user starts with.
func DefaultSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:             userID,
		Language:           "pt-BR",
		EmailNotifications: true,
		PushNotifications:  true,
	}
}

func ValidateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.New(apperr.Validation, "username is required")
	}
	if utf8.RuneCountInString(name) > MaxUsernameLen {
		return "", apperr.New(apperr.Validation, "username must be at most %d characters", MaxUsernameLen)
	}
	return name, nil
}
