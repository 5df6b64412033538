package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest input bcrypt accepts.
const MaxLength = 72

var (
	ErrInvalidPassword   = errors.New("invalid password")
	ErrEmptyPassword     = errors.New("password cannot be empty")
	ErrPasswordTooLong   = fmt.Errorf("password exceeds %d bytes", MaxLength)
	ErrVerifyingPassword = errors.New("error verifying password")
)

// Hash returns the bcrypt hash stored in users.password for newly registered clients.
func Hash(password string) (string, error) {
	return HashWithCost(password, bcrypt.DefaultCost)
}

func HashWithCost(password string, cost int) (string, error) {
	switch {
	case password == "":
		return "", ErrEmptyPassword
	case len(password) > MaxLength:
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports ErrInvalidPassword on a mismatch and ErrVerifyingPassword when hash is not a bcrypt hash.
func Verify(password, hash string) error {
	if password == "" || hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("%w: %w", ErrVerifyingPassword, err)
	}
}
