package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userhub/users-api/internal/core/domain"
	"github.com/userhub/users-api/internal/core/ports"
)

const birthDateLayout = "2006-01-02"

// --- Request → Service input ---

func toCreateInput(req createUserRequest) (domain.CreateUserInput, error) {
	in := domain.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		AvatarURL:   req.AvatarURL,
		Phone:       req.Phone,
		Gender:      domain.Gender(req.Gender),
		Preferences: req.Preferences,
		Metadata:    req.Metadata,
	}
	if req.BirthDate != "" {
		t, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return in, &domain.ValidationError{Errors: []string{"birth date must use the YYYY-MM-DD format"}}
		}
		in.BirthDate = &t
	}
	return in, nil
}

func toUpdateInput(req updateUserRequest) (domain.UpdateUserInput, error) {
	in := domain.UpdateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		AvatarURL:   req.AvatarURL,
		Phone:       req.Phone,
		Preferences: req.Preferences,
		Metadata:    req.Metadata,
	}
	if req.Gender != nil {
		g := domain.Gender(*req.Gender)
		in.Gender = &g
	}
	if req.Status != nil {
		s := domain.UserStatus(*req.Status)
		in.Status = &s
	}
	if req.BirthDate != nil && *req.BirthDate != "" {
		t, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			return in, &domain.ValidationError{Errors: []string{"birth date must use the YYYY-MM-DD format"}}
		}
		in.BirthDate = &t
	}
	return in, nil
}

// pageParams reads page and limit query parameters, tolerating absence but
// rejecting garbage with a validation error.
func pageParams(c echo.Context) (int, int, error) {
	page, err := intParam(c, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ValidationError{Errors: []string{name + " must be an integer"}}
	}
	return n, nil
}

// --- Service result → HTTP response ---

func toPagination(r *ports.UserListResult) *paginationResponse {
	return &paginationResponse{
		Total:      r.Total,
		Page:       r.Page,
		Limit:      r.Limit,
		TotalPages: r.TotalPages,
	}
}
