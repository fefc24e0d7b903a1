package validator

import (
	"net/mail"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

func ValidateRegister(email, firstName, lastName, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	validateName("first_name", "First name", firstName, errs)
	validateName("last_name", "Last name", lastName, errs)

	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validateName(field, label, value string, errs ValidationErrors) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.Add(field, label+" is required")
	} else if len(value) > 100 {
		errs.Add(field, label+" is too long")
	}
}
