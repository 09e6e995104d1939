package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userhub/users-api/internal/core/domain"
	"github.com/userhub/users-api/internal/core/ports"
)

const bcryptCost = 12

const (
	defaultPage  = 1
	defaultLimit = 10
)

// LoginLimiter abstracts the login throttle store (Redis).
type LoginLimiter interface {
	// TooManyAttempts reports whether the identifier has exhausted its
	// failed-login budget for the current window.
	TooManyAttempts(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}

// UserService implements the account management use cases.
type UserService struct {
	repo      ports.UserRepository
	limiter   LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// NewUserService wires the service. limiter may be nil, in which case login
// throttling is disabled.
func NewUserService(repo ports.UserRepository, limiter LoginLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UserService{repo: repo, limiter: limiter, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// CreateUser validates the payload, enforces username/email uniqueness,
// hashes the password and persists the account. The plaintext password is
// never stored.
func (s *UserService) CreateUser(ctx context.Context, in domain.CreateUserInput) (*domain.PublicUser, error) {
	if errs := domain.ValidateCreate(in); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	taken, err := s.repo.IsUsernameExists(ctx, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUsernameExists
	}

	email := strings.ToLower(in.Email)
	taken, err = s.repo.IsEmailExists(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		AvatarURL:    in.AvatarURL,
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Gender:       in.Gender,
		Status:       domain.StatusActive,
		Preferences:  in.Preferences,
		Metadata:     in.Metadata,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to create user")
		return nil, err
	}

	s.log.Info().Uint("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created.Public(), nil
}

// GetUserByID returns the full record when includePrivate is true, otherwise
// only the public projection.
func (s *UserService) GetUserByID(ctx context.Context, id uint, includePrivate bool) (*domain.User, *domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if includePrivate {
		return user, nil, nil
	}
	return nil, user.Public(), nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.PublicUser, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// GetUserList validates pagination, delegates to the repository, and maps
// each record to its public projection.
func (s *UserService) GetUserList(ctx context.Context, in ports.ListUsersInput) (*ports.UserListResult, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	if errs := domain.ValidatePagination(page, limit); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	pageResult, err := s.repo.FindAll(ctx, ports.ListUsersFilter{
		Status:    in.Status,
		Search:    in.Search,
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return toListResult(pageResult, ""), nil
}

// UpdateUser applies a partial update. Changed username/email are re-checked
// for uniqueness excluding the record itself; a present password is re-hashed
// and the plaintext dropped.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in domain.UpdateUserInput) (*domain.PublicUser, error) {
	if errs := domain.ValidateUpdate(in); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)

	if in.Username != nil && *in.Username != current.Username {
		taken, err := s.repo.IsUsernameExists(ctx, *in.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameExists
		}
		fields["username"] = *in.Username
	}

	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		if email != current.Email {
			taken, err := s.repo.IsEmailExists(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrEmailExists
			}
			fields["email"] = email
		}
	}

	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = string(hash)
	}

	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = *in.AvatarURL
	}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.BirthDate != nil {
		fields["birth_date"] = *in.BirthDate
	}
	if in.Gender != nil {
		fields["gender"] = *in.Gender
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Preferences != nil {
		fields["preferences"] = in.Preferences
	}
	if in.Metadata != nil {
		fields["metadata"] = in.Metadata
	}

	if len(fields) == 0 {
		return current.Public(), nil
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		s.log.Error().Err(err).Uint("user_id", id).Msg("failed to update user")
		return nil, err
	}

	s.log.Info().Uint("user_id", id).Msg("user updated")
	return updated.Public(), nil
}

// DeleteUser soft-deletes the account.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Uint("user_id", id).Msg("user soft-deleted")
	return nil
}

// RestoreUser clears the soft-delete marker and reactivates the account.
func (s *UserService) RestoreUser(ctx context.Context, id uint) (*domain.PublicUser, error) {
	user, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", id).Msg("user restored")
	return user.Public(), nil
}

// AuthenticateUser resolves the identifier against username and email,
// verifies the password and, on success, updates the login bookkeeping and
// issues a JWT. Unknown identifiers and wrong passwords are indistinguishable
// to the caller: both fail with ErrInvalidCredentials. The account status is
// only revealed after a successful password match.
func (s *UserService) AuthenticateUser(ctx context.Context, identifier, password, loginIP string) (*ports.AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooManyAttempts(ctx, identifier)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.recordFailure(ctx, identifier)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, identifier)
		s.log.Info().Uint("user_id", user.ID).Str("ip", loginIP).Msg("login failed: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status != domain.StatusActive {
		s.log.Info().Uint("user_id", user.ID).Str("status", string(user.Status)).Msg("login refused: account not active")
		return nil, domain.ErrAccountDisabled
	}

	updated, err := s.repo.RecordLogin(ctx, user.ID, time.Now(), loginIP)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, identifier); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.generateToken(updated)
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", updated.ID).Str("ip", loginIP).Msg("login succeeded")
	return &ports.AuthResult{Token: token, User: updated.Public()}, nil
}

func (s *UserService) recordFailure(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *UserService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// VerifyEmail marks the account's email address as verified.
func (s *UserService) VerifyEmail(ctx context.Context, id uint) (*domain.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, domain.ErrEmailAlreadyVerified
	}

	now := time.Now()
	updated, err := s.repo.Update(ctx, id, map[string]any{
		"email_verified":    true,
		"email_verified_at": now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", id).Msg("email verified")
	return updated.Public(), nil
}

// SearchUsers matches the keyword against username, full name and email and
// returns a paginated public-view list with the keyword echoed back.
func (s *UserService) SearchUsers(ctx context.Context, in ports.SearchUsersInput) (*ports.UserListResult, error) {
	keyword := strings.TrimSpace(in.Keyword)
	if keyword == "" {
		return nil, &domain.ValidationError{Errors: []string{"keyword is required"}}
	}

	page, limit := normalizePage(in.Page, in.Limit)
	if errs := domain.ValidatePagination(page, limit); len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	pageResult, err := s.repo.FindAll(ctx, ports.ListUsersFilter{
		Search: keyword,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return toListResult(pageResult, keyword), nil
}

// GetUserStatistics returns the aggregate counts from the repository.
func (s *UserService) GetUserStatistics(ctx context.Context) (*domain.Statistics, error) {
	return s.repo.GetStatistics(ctx)
}

// normalizePage substitutes the defaults for absent (zero) parameters.
// Explicit out-of-range values pass through untouched so ValidatePagination
// can reject them.
func normalizePage(page, limit int) (int, int) {
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}
	return page, limit
}

func toListResult(p *ports.UserPage, keyword string) *ports.UserListResult {
	users := make([]*domain.PublicUser, len(p.Users))
	for i, u := range p.Users {
		users[i] = u.Public()
	}
	return &ports.UserListResult{
		Users:      users,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
		Keyword:    keyword,
	}
}
