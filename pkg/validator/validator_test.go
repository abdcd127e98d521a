package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	tests := []struct {
		name       string
		fullName   string
		userName   string
		email      string
		password   string
		wantFields []string
	}{
		{"valid", "Ana", "ana_h", "ana@example.com", "secret1", nil},
		{"all missing", "", "", "", "", []string{"name", "userName", "email", "password"}},
		{"bad email", "Ana", "ana", "not-an-email", "secret1", []string{"email"}},
		{"short password", "Ana", "ana", "ana@example.com", "abc", []string{"password"}},
		{"long password", "Ana", "ana", "ana@example.com", strings.Repeat("x", 73), []string{"password"}},
		{"username with spaces", "Ana", "ana h", "ana@example.com", "secret1", []string{"userName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.fullName, tt.userName, tt.email, tt.password)
			assert.Len(t, errs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateLogin(t *testing.T) {
	assert.False(t, ValidateLogin("ana", "x").HasErrors())

	errs := ValidateLogin(" ", "")
	assert.Contains(t, errs, "loginCred")
	assert.Contains(t, errs, "password")
}

func TestValidateUpdate(t *testing.T) {
	assert.False(t, ValidateUpdate("").HasErrors(), "empty email is left unchanged, not rejected")
	assert.False(t, ValidateUpdate("ana@example.com").HasErrors())
	assert.True(t, ValidateUpdate("nope").HasErrors())
}

func TestValidateChangePassword(t *testing.T) {
	assert.False(t, ValidateChangePassword("old-pass", "new-pass").HasErrors())

	errs := ValidateChangePassword("", "123")
	assert.Contains(t, errs, "currentPassword")
	assert.Contains(t, errs, "newPassword")
}

func TestValidationErrors_ErrorIsStable(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("password", "Password is required")
	errs.Add("email", "Email is required")

	assert.Equal(t, "Email is required; Password is required", errs.Error())
}
