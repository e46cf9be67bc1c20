package crypto

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/nikkune/paymybuddy/internal/common/constants"
	commonerrors "github.com/nikkune/paymybuddy/internal/common/errors"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// BcryptHasher produces self-describing hash strings with embedded salt and
// work factor. Comparison is constant time.
type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", commonerrors.ErrInternal.WithCause(err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password string, hash string) (bool, error) {
	if password == "" {
		return false, commonerrors.NewDomainError(
			"EMPTY_PASSWORD",
			commonerrors.KindInvalidArgument,
			"password must not be empty",
		)
	}
	if hash == "" {
		return false, nil
	}

	// Mismatches and malformed stored hashes both read as "not verified".
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil, nil
}
