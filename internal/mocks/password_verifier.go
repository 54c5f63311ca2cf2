package mocks

import "errors"

// ErrPasswordMismatch is the default error for a failed comparison.
var ErrPasswordMismatch = errors.New("password does not match")

// MockPasswordVerifier implements auth.PasswordHasher and
// auth.PasswordVerifier for testing without the cost of real bcrypt. The
// default behavior treats the hash "hashed:<password>" as matching
// <password>.
type MockPasswordVerifier struct {
	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	HashErr    error
	CompareErr error
}

// HashPrefix marks mock-hashed passwords.
const HashPrefix = "hashed:"

// Hash implements the auth.PasswordHasher interface.
func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return HashPrefix + password, nil
}

// Compare implements the auth.PasswordVerifier interface.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.CompareErr != nil {
		return m.CompareErr
	}
	if hashedPassword != HashPrefix+password {
		return ErrPasswordMismatch
	}
	return nil
}
