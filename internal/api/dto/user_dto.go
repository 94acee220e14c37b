package dto

import (
	"time"

	"github.com/grievance-hub/complaint-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
	Phone    *string     `json:"phone,omitempty"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public user view; password hashes never leave the API.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Phone     *string     `json:"phone,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse bundles an issued token with its subject.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// AnalyticsResponse summarizes dashboard counters.
type AnalyticsResponse struct {
	StatusCounts   map[string]int64 `json:"status_counts"`
	CategoryCounts map[string]int64 `json:"category_counts"`
	RoleCounts     map[string]int64 `json:"role_counts"`
}
