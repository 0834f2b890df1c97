package password

import (
	"fmt"
	"unicode"

	"github.com/kbukum/authd/errors"
)

// Violation codes reported by Policy.Check. Codes follow the naming used by
// common identity frameworks so clients can key on them.
const (
	CodePasswordTooShort         = "PasswordTooShort"
	CodePasswordRequiresDigit    = "PasswordRequiresDigit"
	CodePasswordRequiresLower    = "PasswordRequiresLower"
	CodePasswordRequiresUpper    = "PasswordRequiresUpper"
	CodePasswordRequiresNonAlnum = "PasswordRequiresNonAlphanumeric"
)

// Policy defines which passwords are accepted at registration time.
// The zero value accepts everything; ApplyDefaults sets the standard rules.
type Policy struct {
	MinLength              int  `mapstructure:"min_length"`
	RequireDigit           bool `mapstructure:"require_digit"`
	RequireLowercase       bool `mapstructure:"require_lowercase"`
	RequireUppercase       bool `mapstructure:"require_uppercase"`
	RequireNonAlphanumeric bool `mapstructure:"require_non_alphanumeric"`
}

// ApplyDefaults sets the default acceptance rules.
func (p *Policy) ApplyDefaults() {
	if p.MinLength == 0 {
		p.MinLength = 8
	}
}

// Check returns every rule the password breaks, as (code, description)
// pairs. An empty result means the password is acceptable.
func (p *Policy) Check(password string) []errors.FieldError {
	var violations []errors.FieldError

	if len(password) < p.MinLength {
		violations = append(violations, errors.FieldError{
			Code:        CodePasswordTooShort,
			Description: fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength),
		})
	}

	var hasDigit, hasLower, hasUpper, hasNonAlnum bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasNonAlnum = true
		}
	}

	if p.RequireDigit && !hasDigit {
		violations = append(violations, errors.FieldError{
			Code:        CodePasswordRequiresDigit,
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if p.RequireLowercase && !hasLower {
		violations = append(violations, errors.FieldError{
			Code:        CodePasswordRequiresLower,
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if p.RequireUppercase && !hasUpper {
		violations = append(violations, errors.FieldError{
			Code:        CodePasswordRequiresUpper,
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}
	if p.RequireNonAlphanumeric && !hasNonAlnum {
		violations = append(violations, errors.FieldError{
			Code:        CodePasswordRequiresNonAlnum,
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}

	return violations
}
