package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(field.Name)
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

type usernameInput struct {
	Username string `label:"Username" validate:"required,min=3,max=50,username"`
}

type groupInput struct {
	Name        string  `label:"Group name" validate:"required,min=3,max=100"`
	Description *string `label:"Group description" validate:"omitempty,max=500"`
}

type contentInput struct {
	Content string `label:"Message content" validate:"required,max=2000"`
}

// ValidateUsername checks length and charset of an already trimmed username.
func ValidateUsername(username string) error {
	return check(usernameInput{Username: username})
}

// ValidateGroup checks name and optional description, reporting both when both fail.
func ValidateGroup(name string, description *string) error {
	return check(groupInput{Name: name, Description: description})
}

// ValidateContent checks an already trimmed message body.
func ValidateContent(content string) error {
	return check(contentInput{Content: content})
}

func check(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Violations: []string{err.Error()}}
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, describe(fe))
	}
	return &ValidationError{Violations: violations}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "username":
		return fmt.Sprintf("%s can only contain letters, numbers, underscores, dots, and hyphens", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
