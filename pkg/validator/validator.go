package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
)

const (
	minPasswordLen = 6
	// bcrypt rejects longer input.
	maxPasswordLen = 72
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Error joins the messages in field order so responses are stable.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, v[field])
	}
	return strings.Join(msgs, "; ")
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

func ValidateRegister(name, userName, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > 100 {
		errs.Add("name", "Name is too long")
	}

	userName = strings.TrimSpace(userName)
	if userName == "" {
		errs.Add("userName", "Username is required")
	} else if len(userName) > 50 {
		errs.Add("userName", "Username is too long")
	} else if !usernameRegex.MatchString(userName) {
		errs.Add("userName", "Username can only contain letters, numbers, _, . and -")
	}

	validateEmail(email, true, errs)
	validatePassword("password", password, errs)

	return errs
}

func ValidateLogin(loginCred, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(loginCred) == "" {
		errs.Add("loginCred", "Email, username or phone is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

// ValidateUpdate only checks values that will actually be applied.
func ValidateUpdate(email string) ValidationErrors {
	errs := make(ValidationErrors)
	validateEmail(email, false, errs)
	return errs
}

func ValidateChangePassword(currentPassword, newPassword string) ValidationErrors {
	errs := make(ValidationErrors)

	if currentPassword == "" {
		errs.Add("currentPassword", "Current password is required")
	}
	validatePassword("newPassword", newPassword, errs)

	return errs
}

func validateEmail(email string, required bool, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		if required {
			errs.Add("email", "Email is required")
		}
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validatePassword(field, password string, errs ValidationErrors) {
	switch {
	case password == "":
		errs.Add(field, "Password is required")
	case len(password) < minPasswordLen:
		errs.Add(field, fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	case len(password) > maxPasswordLen:
		errs.Add(field, fmt.Sprintf("Password must be at most %d bytes", maxPasswordLen))
	}
}
