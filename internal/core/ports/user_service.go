package ports

import (
	"context"

	"github.com/userhub/users-api/internal/core/domain"
)

// ListUsersInput carries all parameters for the list endpoint.
type ListUsersInput struct {
	Status    string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// SearchUsersInput carries the parameters for keyword search.
type SearchUsersInput struct {
	Keyword string
	Page    int
	Limit   int
}

// UserListResult is returned by GetUserList and SearchUsers.
type UserListResult struct {
	Users      []*domain.PublicUser
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	Keyword    string // echoed back by SearchUsers, empty otherwise
}

// AuthResult is returned on successful authentication.
type AuthResult struct {
	Token string
	User  *domain.PublicUser
}

// UserService defines the account management use cases.
type UserService interface {
	CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.PublicUser, error)
	// GetUserByID returns the full record when includePrivate is true,
	// otherwise only the public projection is populated.
	GetUserByID(ctx context.Context, id uint, includePrivate bool) (*domain.User, *domain.PublicUser, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.PublicUser, error)
	GetUserList(ctx context.Context, in ListUsersInput) (*UserListResult, error)
	UpdateUser(ctx context.Context, id uint, in domain.UpdateUserInput) (*domain.PublicUser, error)
	// DeleteUser soft-deletes; the record stays restorable until hard-deleted.
	DeleteUser(ctx context.Context, id uint) error
	// RestoreUser clears the soft-delete marker and reactivates the account.
	RestoreUser(ctx context.Context, id uint) (*domain.PublicUser, error)
	AuthenticateUser(ctx context.Context, identifier, password, loginIP string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, id uint) (*domain.PublicUser, error)
	SearchUsers(ctx context.Context, in SearchUsersInput) (*UserListResult, error)
	GetUserStatistics(ctx context.Context) (*domain.Statistics, error)
}
