package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/noticiero/cms/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// FieldError represents a single validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of field errors produced by validating one input
type Errors []FieldError

// Error implements the error interface
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Has reports whether the set contains an error for the given field
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns the set as an error, or nil when it is empty
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ArticleInput carries the validated fields of an article create/edit form
type ArticleInput struct {
	Title    string
	Category string
	Author   string
	Content  string
}

// Validate checks an article input. On success the Category field holds the
// normalized (uppercased) value and a blank Author has been defaulted.
func (in *ArticleInput) Validate() Errors {
	var errs Errors

	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Author = strings.TrimSpace(in.Author)

	if len([]rune(in.Title)) < 5 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at least 5 characters"})
	}
	if in.Content == "" {
		errs = append(errs, FieldError{Field: "content", Message: "content is required"})
	}

	category, ok := models.NormalizeCategory(in.Category)
	if !ok {
		errs = append(errs, FieldError{Field: "category", Message: "category is not in the allowed set"})
	} else {
		in.Category = category
	}

	if in.Author == "" {
		in.Author = models.DefaultAuthor
	}

	return errs
}

// ContactInput carries the validated fields of a contact form submission
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Validate checks a contact form submission
func (in *ContactInput) Validate() Errors {
	var errs Errors

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if in.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email format"})
	}
	if in.Message == "" {
		errs = append(errs, FieldError{Field: "message", Message: "message is required"})
	}

	return errs
}

// LoginInput carries the fields of a login attempt
type LoginInput struct {
	Username string
	Password string
}

// Validate checks a login attempt
func (in *LoginInput) Validate() Errors {
	var errs Errors

	in.Username = strings.TrimSpace(in.Username)

	if in.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if in.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// UserInput carries the validated fields of an administrator account form.
// RequirePassword is set on create, where a password is mandatory; on edit a
// blank password means "keep the current one".
type UserInput struct {
	Username        string
	Password        string
	ConfirmPassword string
	IsAdmin         bool
	RequirePassword bool
}

// Validate checks an administrator account form
func (in *UserInput) Validate() Errors {
	var errs Errors

	in.Username = strings.TrimSpace(in.Username)

	if len([]rune(in.Username)) < 4 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be at least 4 characters"})
	}
	if in.Password == "" {
		if in.RequirePassword {
			errs = append(errs, FieldError{Field: "password", Message: "password is required"})
		}
	} else {
		if len(in.Password) < 8 {
			errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
		}
		if in.Password != in.ConfirmPassword {
			errs = append(errs, FieldError{Field: "confirm_password", Message: "passwords do not match"})
		}
	}

	return errs
}
