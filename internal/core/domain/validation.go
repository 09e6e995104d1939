package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ValidationError aggregates field-level failures. It is returned by the
// service layer whenever input does not satisfy the account rules, and the
// HTTP layer renders Errors as the envelope's "errors" list.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9][0-9 \-]{4,19}$`)
	fullNameRe = regexp.MustCompile(`^[\p{Han}\p{Latin} ]+$`)
)

const maxAgeYears = 150

// ValidateUsername checks the username rules: required, 3-50 chars,
// alphanumeric/underscore, not starting with a digit.
func ValidateUsername(username string) []string {
	var errs []string
	if username == "" {
		return append(errs, "username is required")
	}
	if len(username) < 3 || len(username) > 50 {
		errs = append(errs, "username must be between 3 and 50 characters")
	}
	if !usernameRe.MatchString(username) {
		errs = append(errs, "username may only contain letters, digits and underscores, and must not start with a digit")
	}
	return errs
}

// ValidateEmail checks the email rules: required, simple local@domain.tld
// shape, at most 100 chars.
func ValidateEmail(email string) []string {
	var errs []string
	if email == "" {
		return append(errs, "email is required")
	}
	if len(email) > 100 {
		errs = append(errs, "email must not exceed 100 characters")
	}
	if !emailRe.MatchString(email) {
		errs = append(errs, "email format is invalid")
	}
	return errs
}

// ValidatePassword checks the plaintext password rules: 6-128 chars with at
// least one lowercase letter, one uppercase letter, one digit and one of
// @$!%*?&.
func ValidatePassword(password string) []string {
	var errs []string
	if password == "" {
		return append(errs, "password is required")
	}
	if len(password) < 6 || len(password) > 128 {
		errs = append(errs, "password must be between 6 and 128 characters")
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune("@$!%*?&", r):
			hasSpecial = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		errs = append(errs, "password must contain a lowercase letter, an uppercase letter, a digit and one of @$!%*?&")
	}
	return errs
}

// ValidatePhone checks the optional phone field against a loose
// international/local digit pattern.
func ValidatePhone(phone string) []string {
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return []string{"phone format is invalid"}
	}
	return nil
}

// ValidateFullName checks the optional full name: at most 100 chars, CJK or
// Latin letters and spaces only.
func ValidateFullName(name string) []string {
	if name == "" {
		return nil
	}
	var errs []string
	if len(name) > 100 {
		errs = append(errs, "full name must not exceed 100 characters")
	}
	if !fullNameRe.MatchString(name) {
		errs = append(errs, "full name may only contain letters and spaces")
	}
	return errs
}

// ValidateBirthDate checks the optional birth date: not in the future and
// implying an age of at most 150 years.
func ValidateBirthDate(birthDate *time.Time) []string {
	if birthDate == nil {
		return nil
	}
	now := time.Now()
	if birthDate.After(now) {
		return []string{"birth date must not be in the future"}
	}
	if birthDate.Before(now.AddDate(-maxAgeYears, 0, 0)) {
		return []string{fmt.Sprintf("birth date implies an age over %d years", maxAgeYears)}
	}
	return nil
}

// ValidateAvatarURL checks the optional avatar URL: well-formed absolute URL,
// at most 500 chars.
func ValidateAvatarURL(avatarURL string) []string {
	if avatarURL == "" {
		return nil
	}
	var errs []string
	if len(avatarURL) > 500 {
		errs = append(errs, "avatar URL must not exceed 500 characters")
	}
	if u, err := url.Parse(avatarURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, "avatar URL is not a valid URL")
	}
	return errs
}

// CreateUserInput carries the fields accepted when creating an account.
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	AvatarURL   string
	Phone       string
	BirthDate   *time.Time
	Gender      Gender
	Preferences JSONMap
	Metadata    JSONMap
}

// UpdateUserInput carries the fields accepted when updating an account.
// Every field is optional; nil/empty means "leave unchanged".
type UpdateUserInput struct {
	Username    *string
	Email       *string
	Password    *string
	FullName    *string
	AvatarURL   *string
	Phone       *string
	BirthDate   *time.Time
	Gender      *Gender
	Status      *UserStatus
	Preferences JSONMap
	Metadata    JSONMap
}

// ValidateCreate checks a creation payload. Username, email and password are
// required; the remaining fields are validated only when present. All
// failures are aggregated rather than returned on first hit.
func ValidateCreate(in CreateUserInput) []string {
	var errs []string
	errs = append(errs, ValidateUsername(in.Username)...)
	errs = append(errs, ValidateEmail(in.Email)...)
	errs = append(errs, ValidatePassword(in.Password)...)
	errs = append(errs, ValidateFullName(in.FullName)...)
	errs = append(errs, ValidateAvatarURL(in.AvatarURL)...)
	errs = append(errs, ValidatePhone(in.Phone)...)
	errs = append(errs, ValidateBirthDate(in.BirthDate)...)
	if in.Gender != "" && !ValidGender(in.Gender) {
		errs = append(errs, "gender must be one of male, female, other")
	}
	return errs
}

// ValidateUpdate checks an update payload. Only the fields present are
// validated; status is additionally allowed here.
func ValidateUpdate(in UpdateUserInput) []string {
	var errs []string
	if in.Username != nil {
		errs = append(errs, ValidateUsername(*in.Username)...)
	}
	if in.Email != nil {
		errs = append(errs, ValidateEmail(*in.Email)...)
	}
	if in.Password != nil {
		errs = append(errs, ValidatePassword(*in.Password)...)
	}
	if in.FullName != nil {
		errs = append(errs, ValidateFullName(*in.FullName)...)
	}
	if in.AvatarURL != nil {
		errs = append(errs, ValidateAvatarURL(*in.AvatarURL)...)
	}
	if in.Phone != nil {
		errs = append(errs, ValidatePhone(*in.Phone)...)
	}
	errs = append(errs, ValidateBirthDate(in.BirthDate)...)
	if in.Gender != nil && !ValidGender(*in.Gender) {
		errs = append(errs, "gender must be one of male, female, other")
	}
	if in.Status != nil && !ValidStatus(*in.Status) {
		errs = append(errs, "status must be one of active, inactive, suspended, deleted")
	}
	return errs
}

// ValidatePagination checks list parameters: page >= 1, limit in [1,100].
func ValidatePagination(page, limit int) []string {
	var errs []string
	if page < 1 {
		errs = append(errs, "page must be a positive integer")
	}
	if limit < 1 || limit > 100 {
		errs = append(errs, "limit must be between 1 and 100")
	}
	return errs
}
