package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/models"
)

var registerOnce sync.Once

// RegisterValidators makes gin's validator report JSON field names and
// teaches it the request_status tag. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("request_status", func(fl validator.FieldLevel) bool {
			status, ok := fl.Field().Interface().(models.RequestStatus)
			return ok && status.Valid()
		})
	})
}

// bindJSON decodes and validates the body into dst. Failures come back as a
// validation error carrying message and one issue per bad field.
func bindJSON(ctx *gin.Context, dst interface{}, message string) error {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		return apperr.Validation(message, issuesFrom(err))
	}
	return nil
}

func issuesFrom(err error) []apperr.Issue {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		issues := make([]apperr.Issue, 0, len(validationErrs))
		for _, fe := range validationErrs {
			issues = append(issues, apperr.Issue{
				Path:    fieldPath(fe.Namespace()),
				Message: issueMessage(fe),
			})
		}
		return issues
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := []string{}
		if typeErr.Field != "" {
			path = strings.Split(typeErr.Field, ".")
		}
		return []apperr.Issue{{
			Path:    path,
			Message: fmt.Sprintf("Expected %s, received %s", typeErr.Type.String(), typeErr.Value),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []apperr.Issue{{Path: []string{}, Message: "Request body is required"}}
	}

	return []apperr.Issue{{Path: []string{}, Message: "Malformed JSON body"}}
}

// fieldPath drops the Go struct name that leads every namespace.
func fieldPath(namespace string) []string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		return parts[1:]
	}
	return parts
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "eqfield":
		if fe.Field() == "confirmPassword" {
			return "Passwords do not match"
		}
		return fmt.Sprintf("Must match %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
	case "request_status":
		quoted := make([]string, 0, len(models.RequestStatuses))
		for _, status := range models.RequestStatuses {
			quoted = append(quoted, "'"+string(status)+"'")
		}
		return "Invalid enum value. Expected " + strings.Join(quoted, " | ")
	case "latitude", "longitude":
		return "Invalid " + fe.Tag()
	default:
		return "Invalid value"
	}
}
