package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/apperr"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return fmt.Errorf("%w: wrong email or password", apperr.ErrUnauthorized)
	}
	return nil
}
