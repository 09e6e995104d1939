package ports

import (
	"context"
	"time"

	"github.com/userhub/users-api/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
// SortBy is validated against a whitelist by the repository; unknown columns
// fall back to the default newest-first ordering.
type ListUsersFilter struct {
	Status    string // optional: filter by account status
	Search    string // optional: substring match on username, full_name or email
	SortBy    string // optional: created_at (default), username, last_login_at, login_count
	SortOrder string // "asc" or "desc" (default)
	Page      int    // 1-based
	Limit     int    // rows per page, validated to [1,100] by the service
}

// UserPage is a single page of users plus pagination metadata.
type UserPage struct {
	Users      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserRepository defines persistence operations for user accounts.
// All lookups exclude soft-deleted rows unless documented otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmail normalizes the email to lowercase before comparison.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail resolves a login identifier against both columns.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	FindAll(ctx context.Context, filter ListUsersFilter) (*UserPage, error)
	// Update applies a partial column update and returns the refreshed record.
	Update(ctx context.Context, id uint, fields map[string]any) (*domain.User, error)
	// RecordLogin stamps the login bookkeeping: last_login_at, last_login_ip
	// and an atomic login_count increment, in a single statement.
	RecordLogin(ctx context.Context, id uint, at time.Time, ip string) (*domain.User, error)
	// SoftDelete hides the row from standard lookups. A second call on the
	// same id reports ErrUserNotFound.
	SoftDelete(ctx context.Context, id uint) error
	// HardDelete permanently removes the row regardless of soft-delete state.
	HardDelete(ctx context.Context, id uint) error
	// Restore clears the soft-delete marker on a previously soft-deleted row.
	Restore(ctx context.Context, id uint) (*domain.User, error)
	// IsUsernameExists reports whether any row, soft-deleted included, holds
	// the username; only a hard delete frees it. excludeID (when non-zero)
	// skips that row.
	IsUsernameExists(ctx context.Context, username string, excludeID uint) (bool, error)
	IsEmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
