package handler

import (
	"github.com/userhub/users-api/internal/core/domain"
)

// envelope is the canonical response shape for every endpoint:
// {success, message, data?, errors?, pagination?}.
type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       any                 `json:"data,omitempty"`
	Errors     []string            `json:"errors,omitempty"`
	Pagination *paginationResponse `json:"pagination,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func ok(message string, data any) envelope {
	return envelope{Success: true, Message: message, Data: data}
}

// --- Request types ---

type createUserRequest struct {
	Username    string         `json:"username"    validate:"required"`
	Email       string         `json:"email"       validate:"required"`
	Password    string         `json:"password"    validate:"required"`
	FullName    string         `json:"full_name"`
	AvatarURL   string         `json:"avatar_url"`
	Phone       string         `json:"phone"`
	BirthDate   string         `json:"birth_date"` // YYYY-MM-DD
	Gender      string         `json:"gender"`
	Preferences domain.JSONMap `json:"preferences"`
	Metadata    domain.JSONMap `json:"metadata"`
}

type updateUserRequest struct {
	Username    *string        `json:"username"`
	Email       *string        `json:"email"`
	Password    *string        `json:"password"`
	FullName    *string        `json:"full_name"`
	AvatarURL   *string        `json:"avatar_url"`
	Phone       *string        `json:"phone"`
	BirthDate   *string        `json:"birth_date"` // YYYY-MM-DD
	Gender      *string        `json:"gender"`
	Status      *string        `json:"status"`
	Preferences domain.JSONMap `json:"preferences"`
	Metadata    domain.JSONMap `json:"metadata"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

// --- Response payloads (the data field) ---

type userData struct {
	User any `json:"user"`
}

type userListData struct {
	Users []*domain.PublicUser `json:"users"`
}

type searchData struct {
	Users   []*domain.PublicUser `json:"users"`
	Keyword string               `json:"keyword"`
}

type loginData struct {
	Token string             `json:"token"`
	User  *domain.PublicUser `json:"user"`
}
