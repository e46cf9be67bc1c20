package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/nikkune/paymybuddy/internal/common/constants"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateUsername(username string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidation.WithMessagef(
			"username must be between %d and %d characters",
			constants.UsernameMinLength, constants.UsernameMaxLength,
		)
	}

	for _, r := range username {
		if !unicode.IsPrint(r) {
			return ErrValidation.WithMessagef("username contains non-printable characters")
		}
	}

	if strings.TrimSpace(username) == "" {
		return ErrValidation.WithMessagef("username must not be blank")
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrValidation.WithMessagef("email must not be empty")
	}
	if len(email) > constants.EmailMaxLength || !emailRegex.MatchString(email) {
		return ErrValidation.WithMessagef("email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidation.WithMessagef(
			"password must be between %d and %d characters",
			constants.PasswordMinLength, constants.PasswordMaxLength,
		)
	}
	return nil
}
