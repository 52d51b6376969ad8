package services

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber   = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial  = errors.New("password must contain at least one special character")
	ErrPasswordCommon     = errors.New("password is too common")
	ErrPasswordSequential = errors.New("password contains sequential characters")
	ErrPasswordRepeating  = errors.New("password contains repeating characters")
)

// PasswordPolicy is checked before a registration is forwarded, so obviously
// weak passwords are rejected without a backend round trip.
type PasswordPolicy struct {
	minLength       int
	maxRun          int
	commonPasswords map[string]bool
}

func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		minLength: 8,
		maxRun:    3,
		commonPasswords: map[string]bool{
			"password":  true,
			"password1": true,
			"qwerty123": true,
			"welcome1":  true,
			"letmein1":  true,
		},
	}
}

// Validate returns the first rule the password breaks. Runs of maxRun or more
// identical or consecutive characters ("aaa", "abc", "321") are rejected.
func (p *PasswordPolicy) Validate(password string) error {
	if len([]rune(password)) < p.minLength {
		return ErrPasswordTooShort
	}
	if p.commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var prev rune
	repeat, ascending, descending := 1, 1, 1

	for i, ch := range []rune(password) {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsNumber(ch):
			hasNumber = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}

		if i > 0 {
			repeat = bump(repeat, ch == prev)
			ascending = bump(ascending, ch == prev+1)
			descending = bump(descending, ch == prev-1)
			if repeat >= p.maxRun {
				return ErrPasswordRepeating
			}
			if ascending >= p.maxRun || descending >= p.maxRun {
				return ErrPasswordSequential
			}
		}
		prev = ch
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasNumber:
		return ErrPasswordNoNumber
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}
	return nil
}

func bump(n int, cont bool) int {
	if cont {
		return n + 1
	}
	return 1
}
