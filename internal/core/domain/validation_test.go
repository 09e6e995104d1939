package domain

import (
	"strings"
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"valid", "alice_99", true},
		{"minimum length", "abc", true},
		{"maximum length", strings.Repeat("a", 50), true},
		{"empty", "", false},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 51), false},
		{"starts with digit", "9lives", false},
		{"illegal characters", "alice-smith", false},
		{"underscore start", "_alice", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateUsername(tc.username)
			if ok := len(errs) == 0; ok != tc.wantOK {
				t.Fatalf("ValidateUsername(%q) errors = %v, want ok=%v", tc.username, errs, tc.wantOK)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		name   string
		email  string
		wantOK bool
	}{
		{"valid", "alice@example.com", true},
		{"subdomain", "a@mail.example.co", true},
		{"empty", "", false},
		{"no at sign", "alice.example.com", false},
		{"no tld", "alice@example", false},
		{"spaces", "al ice@example.com", false},
		{"too long", strings.Repeat("a", 95) + "@ex.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateEmail(tc.email)
			if ok := len(errs) == 0; ok != tc.wantOK {
				t.Fatalf("ValidateEmail(%q) errors = %v, want ok=%v", tc.email, errs, tc.wantOK)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"Secret1!", "aB3@xy", "Str0ng&pass"}
	for _, p := range valid {
		if errs := ValidatePassword(p); len(errs) != 0 {
			t.Fatalf("ValidatePassword(%q) = %v, want none", p, errs)
		}
	}

	invalid := []string{
		"",            // required
		"aB1@x",       // too short
		"secret1@",    // no uppercase
		"SECRET1@",    // no lowercase
		"Secretx@",    // no digit
		"Secret12",    // no special character
		"aB1#defg",    // # is not in the allowed set
		"A1@" + strings.Repeat("a", 126), // too long
	}
	for _, p := range invalid {
		if errs := ValidatePassword(p); len(errs) == 0 {
			t.Fatalf("ValidatePassword(%q) passed, want failure", p)
		}
	}
}

func TestValidateOptionalFields(t *testing.T) {
	if errs := ValidatePhone(""); len(errs) != 0 {
		t.Fatalf("empty phone should be valid: %v", errs)
	}
	if errs := ValidatePhone("+52 55 1234 5678"); len(errs) != 0 {
		t.Fatalf("international phone should be valid: %v", errs)
	}
	if errs := ValidatePhone("not-a-phone"); len(errs) == 0 {
		t.Fatalf("expected phone failure")
	}

	if errs := ValidateFullName("Alice Smith"); len(errs) != 0 {
		t.Fatalf("latin name should be valid: %v", errs)
	}
	if errs := ValidateFullName("张伟"); len(errs) != 0 {
		t.Fatalf("CJK name should be valid: %v", errs)
	}
	if errs := ValidateFullName("alice.smith"); len(errs) == 0 {
		t.Fatalf("expected full name failure for punctuation")
	}
	if errs := ValidateFullName(strings.Repeat("a", 101)); len(errs) == 0 {
		t.Fatalf("expected full name failure for length")
	}

	if errs := ValidateAvatarURL("https://cdn.example.com/a.png"); len(errs) != 0 {
		t.Fatalf("valid url rejected: %v", errs)
	}
	if errs := ValidateAvatarURL("not a url"); len(errs) == 0 {
		t.Fatalf("expected avatar url failure")
	}

	future := time.Now().Add(24 * time.Hour)
	if errs := ValidateBirthDate(&future); len(errs) == 0 {
		t.Fatalf("expected failure for future birth date")
	}
	ancient := time.Now().AddDate(-200, 0, 0)
	if errs := ValidateBirthDate(&ancient); len(errs) == 0 {
		t.Fatalf("expected failure for 200-year-old birth date")
	}
	reasonable := time.Now().AddDate(-30, 0, 0)
	if errs := ValidateBirthDate(&reasonable); len(errs) != 0 {
		t.Fatalf("reasonable birth date rejected: %v", errs)
	}
}

func TestValidateCreate_AggregatesErrors(t *testing.T) {
	errs := ValidateCreate(CreateUserInput{
		Username: "9bad",
		Email:    "not-an-email",
		Password: "weak",
		Gender:   "unknown",
	})
	if len(errs) < 4 {
		t.Fatalf("expected at least 4 aggregated errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateUpdate_OnlyPresentFields(t *testing.T) {
	if errs := ValidateUpdate(UpdateUserInput{}); len(errs) != 0 {
		t.Fatalf("empty update should be valid: %v", errs)
	}

	bad := "x"
	if errs := ValidateUpdate(UpdateUserInput{Username: &bad}); len(errs) == 0 {
		t.Fatalf("expected failure for short username")
	}

	status := StatusSuspended
	if errs := ValidateUpdate(UpdateUserInput{Status: &status}); len(errs) != 0 {
		t.Fatalf("valid status rejected: %v", errs)
	}
	wrong := UserStatus("banned")
	if errs := ValidateUpdate(UpdateUserInput{Status: &wrong}); len(errs) == 0 {
		t.Fatalf("expected failure for unknown status")
	}
}

func TestValidatePagination(t *testing.T) {
	if errs := ValidatePagination(1, 10); len(errs) != 0 {
		t.Fatalf("valid pagination rejected: %v", errs)
	}
	if errs := ValidatePagination(0, 10); len(errs) == 0 {
		t.Fatalf("expected failure for page 0")
	}
	if errs := ValidatePagination(1, 0); len(errs) == 0 {
		t.Fatalf("expected failure for limit 0")
	}
	if errs := ValidatePagination(1, 101); len(errs) == 0 {
		t.Fatalf("expected failure for limit over 100")
	}
}
