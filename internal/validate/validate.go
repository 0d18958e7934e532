// Package validate is the form-validation engine guarding every mutating
// input. It is pure: no network access, no side effects.
package validate

import (
	"reflect" // Struct tag lookup for reported field names
	"regexp"  // Field pattern rules
	"strings" // Input trimming
	"unicode" // Password character classes

	"github.com/go-playground/validator/v10" // Struct validation
)

// Mode selects which form is being validated; only the fields relevant to
// the active mode are checked.
type Mode int

// Validation modes
const (
	ModeRegister Mode = iota
	ModeLogin
	ModeForgotPassword
	ModeProfileUpdate
)

// Form carries every field the auth and profile forms can submit. Fields
// irrelevant to the active mode are ignored.
type Form struct {
	Name           string // Customer display name
	Email          string // Login email
	Phone          string // 10-digit phone number
	Password       string // Password (register and login)
	RetypePassword string // Password confirmation (register only)
	NewPassword    string // Replacement password (forgot-password only)
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`) // local@domain.tld, one @, dot in domain
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)               // Exactly 10 digits, first in 6-9
)

var check = newValidator()

// newValidator builds the validator with this package's custom rules and
// teaches it to report the form field names instead of Go struct names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})
	_ = v.RegisterValidation("email_basic", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("inphone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

// strongPassword requires length >= 8 with at least one lowercase letter,
// one uppercase letter, one digit and one non-alphanumeric character
func strongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return lower && upper && digit && special
}

// Per-mode field subsets. Tags carry the rule chain; the form tag names the
// field as it is reported back to the caller.
type registerForm struct {
	Name           string `form:"customerName" validate:"required,min=3"`
	Email          string `form:"customerEmail" validate:"required,email_basic"`
	Phone          string `form:"customerPhoneNumber" validate:"required,inphone"`
	Password       string `form:"password" validate:"required,strongpwd"`
	RetypePassword string `form:"retypePassword" validate:"required,eqfield=Password"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type forgotPasswordForm struct {
	Email       string `form:"email" validate:"required"`
	NewPassword string `form:"newPassword" validate:"required"`
}

type profileUpdateForm struct {
	Name  string `form:"customerName" validate:"required,min=3"`
	Email string `form:"customerEmail" validate:"required,email_basic"`
	Phone string `form:"customerPhoneNumber" validate:"required,inphone"`
}

// Validate checks the fields relevant to the active mode and returns a map
// of field name to human-readable error. An empty map signals validity.
func Validate(f Form, mode Mode) map[string]string {
	var target any
	switch mode {
	case ModeRegister:
		target = registerForm{
			Name:           strings.TrimSpace(f.Name),
			Email:          strings.TrimSpace(f.Email),
			Phone:          strings.TrimSpace(f.Phone),
			Password:       f.Password,
			RetypePassword: f.RetypePassword,
		}
	case ModeLogin:
		target = loginForm{
			Email:    strings.TrimSpace(f.Email),
			Password: strings.TrimSpace(f.Password),
		}
	case ModeForgotPassword:
		target = forgotPasswordForm{
			Email:       strings.TrimSpace(f.Email),
			NewPassword: strings.TrimSpace(f.NewPassword),
		}
	case ModeProfileUpdate:
		target = profileUpdateForm{
			Name:  strings.TrimSpace(f.Name),
			Email: strings.TrimSpace(f.Email),
			Phone: strings.TrimSpace(f.Phone),
		}
	}
	out := map[string]string{}
	err := check.Struct(target)
	if err == nil {
		return out
	}
	for _, fe := range err.(validator.ValidationErrors) {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe.Field(), fe.Tag())
		}
	}
	return out
}

// message maps a failed rule to the text shown next to the field
func message(field, tag string) string {
	switch tag {
	case "required":
		switch field {
		case "customerName":
			return "Please enter the name"
		case "customerEmail":
			return "Please enter the email"
		case "customerPhoneNumber":
			return "Please enter the number"
		case "password":
			return "Please enter the password"
		case "retypePassword":
			return "Please re-enter the password"
		case "email":
			return "Please enter your email"
		case "newPassword":
			return "Please enter a new password"
		}
		return "This field is required"
	case "min":
		return "Name must be at least 3 characters"
	case "email_basic":
		return "Enter a valid email"
	case "inphone":
		return "Phone number must be 10 digits (start with 6-9)"
	case "strongpwd":
		return "Password must be 8+ chars, with upper, lower, number & special char"
	case "eqfield":
		return "Passwords do not match"
	}
	return "Invalid value"
}
