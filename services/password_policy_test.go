package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordPolicy(t *testing.T) {
	p := NewPasswordPolicy()

	tests := []struct {
		password string
		want     error
	}{
		{"Tr1cky!pass", nil},
		{"Sh0rt!", ErrPasswordTooShort},
		{"Password1", ErrPasswordCommon},
		{"n0upper!case", ErrPasswordNoUpper},
		{"N0LOWER!CASE", ErrPasswordNoLower},
		{"NoNumber!here", ErrPasswordNoNumber},
		{"NoSpecial1here", ErrPasswordNoSpecial},
		{"Xyz!abc9Q", ErrPasswordSequential},
		{"Zy!9876Qw", ErrPasswordSequential},
		{"Go!aaa9Wq", ErrPasswordRepeating},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Validate(tt.password))
		})
	}
}
