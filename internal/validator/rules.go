package validator

import (
	"log"
	"unicode"
	"unicode/utf8"

	"user-server/shared/models"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 100

	passwordTag   = "password"
	userStatusTag = "user-status"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister(passwordTag, validatePassword)
	mustRegister(userStatusTag, validateUserStatus)
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsValidPassword(fl.Field().String())
}

func validateUserStatus(fl validator.FieldLevel) bool {
	return models.UserStatus(fl.Field().String()).IsValid()
}

// IsValidPassword reports whether p satisfies the password policy.
func IsValidPassword(p string) bool {
	n := utf8.RuneCountInString(p)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range p {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
