package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid email",
			email:   "ana@example.com",
			wantErr: false,
		},
		{
			name:    "valid email - subdomain and plus",
			email:   "ana.garcia+hr@mail.example.es",
			wantErr: false,
		},
		{
			name:    "invalid - empty email",
			email:   "",
			wantErr: true,
			errMsg:  "email cannot be empty",
		},
		{
			name:    "invalid - no at sign",
			email:   "ana.example.com",
			wantErr: true,
			errMsg:  "is not a valid address",
		},
		{
			name:    "invalid - no domain dot",
			email:   "ana@localhost",
			wantErr: true,
			errMsg:  "is not a valid address",
		},
		{
			name:    "invalid - contains space",
			email:   "ana garcia@example.com",
			wantErr: true,
			errMsg:  "is not a valid address",
		},
		{
			name:    "invalid - too long",
			email:   strings.Repeat("a", 250) + "@example.com",
			wantErr: true,
			errMsg:  "must not exceed 254 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret"))
	assert.NoError(t, ValidatePassword(" p4ss "))

	err := ValidatePassword("")
	require.Error(t, err)
	assert.Equal(t, "password cannot be empty", err.Error())

	err = ValidatePassword("   ")
	require.Error(t, err)
}
