package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	IsAdmin   bool       `json:"is_admin,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type SignupInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user"`
}

type SignupResponse struct {
	User *User `json:"user"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserPreferences is owned by the server; the client treats it as an
// opaque JSON object.
type UserPreferences = json.RawMessage

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

type AnalyticsEvent struct {
	EventName  string         `json:"eventName"`
	Properties map[string]any `json:"properties"`
}

type AnalyticsSummary struct {
	SessionID    string         `json:"session_id"`
	TotalEvents  int            `json:"total_events"`
	EventTypes   map[string]int `json:"event_types"`
	StartTime    string         `json:"start_time,omitempty"`
	LastActivity string         `json:"last_activity,omitempty"`
}
