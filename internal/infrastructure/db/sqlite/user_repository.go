package sqlite

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/userhub/users-api/internal/core/domain"
	"github.com/userhub/users-api/internal/core/ports"
)

// sortColumns whitelists the columns exposed through the list endpoint's
// sortBy parameter. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"username":      "username",
	"last_login_at": "last_login_at",
	"login_count":   "login_count",
}

// UserRepository persists users through gorm. Soft-deleted rows are excluded
// from every query except HardDelete and Restore, which go through Unscoped.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByEmail normalizes the email to lowercase before comparison; the column
// is stored lowercased, so the match is exact.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUsernameOrEmail resolves a login identifier against both columns.
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return &user, nil
}

// FindAll returns a page of users plus the total count. Default order is
// newest-first by creation time.
func (r *UserRepository) FindAll(ctx context.Context, filter ports.ListUsersFilter) (*ports.UserPage, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	var users []*domain.User
	err := q.Order(column + " " + direction).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.UserPage{
		Users:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Update applies a partial column update and returns the refreshed record.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]any) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// RecordLogin stamps the login bookkeeping in a single statement. The counter
// increments as a column expression so concurrent logins cannot lose updates,
// independent of the connection-pool cap.
func (r *UserRepository) RecordLogin(ctx context.Context, id uint, at time.Time, ip string) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"last_login_at": at,
		"last_login_ip": ip,
		"login_count":   gorm.Expr("login_count + 1"),
	})
	if res.Error != nil {
		return nil, fmt.Errorf("record login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// SoftDelete sets the soft-delete marker. A second call on the same id finds
// no visible row and reports ErrUserNotFound.
func (r *UserRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("soft delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// HardDelete permanently removes the row regardless of soft-delete state.
func (r *UserRepository) HardDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&domain.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("hard delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Restore clears the soft-delete marker on a previously soft-deleted row and
// sets the account active again. The lookup bypasses the soft-delete filter.
func (r *UserRepository) Restore(ctx context.Context, id uint) (*domain.User, error) {
	res := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{"deleted_at": nil, "status": domain.StatusActive})
	if res.Error != nil {
		return nil, fmt.Errorf("restore user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// IsUsernameExists reports whether any row holds the username, soft-deleted
// rows included: the UNIQUE index spans them, so a name stays taken until the
// row is hard-deleted. excludeID, when non-zero, skips that row ("is this
// mine" checks during updates).
func (r *UserRepository) IsUsernameExists(ctx context.Context, username string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).Where("username = ?", username)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) IsEmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).Where("email = ?", strings.ToLower(email))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// GetStatistics returns aggregate counts. todayRegistered counts rows created
// since the start of the current day in the server's local time; the
// verification rate is a percentage rounded to two decimals, 0 when the table
// is empty.
func (r *UserRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}
	model := func() *gorm.DB { return r.db.WithContext(ctx).Model(&domain.User{}) }

	if err := model().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count total users: %w", err)
	}
	if err := model().Where("status = ?", domain.StatusActive).Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	if err := model().Where("email_verified = ?", true).Count(&stats.Verified).Error; err != nil {
		return nil, fmt.Errorf("count verified users: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := model().Where("created_at >= ?", startOfDay).Count(&stats.TodayRegistered).Error; err != nil {
		return nil, fmt.Errorf("count today's registrations: %w", err)
	}

	if stats.Total > 0 {
		rate := float64(stats.Verified) / float64(stats.Total) * 100
		stats.VerificationRate = math.Round(rate*100) / 100
	}
	return stats, nil
}
