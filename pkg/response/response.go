// Package response defines the JSON envelope returned by the HTTP API.
package response

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	EmptyRequestBodyResponse = Response{
		Status:  StatusError,
		Message: "Request body is empty. Please provide necessary data.",
	}

	BadRequestResponse = Response{
		Status:  StatusError,
		Message: "Invalid request body. Please check your input.",
	}

	UnauthorizedResponse = Response{
		Status:  StatusError,
		Message: "Not authenticated.",
	}

	ResourceNotFoundResponse = Response{
		Status:  StatusError,
		Message: "The requested resource was not found.",
	}

	ServiceUnavailableResponse = Response{
		Status:  StatusError,
		Message: "The service is temporarily unavailable. Please try again later.",
	}

	ServerErrorResponse = Response{
		Status:  StatusError,
		Message: "An internal server error occurred. Please try again later.",
	}
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
	Data    any               `json:"data,omitempty"`
}

// SuccessResponse builds a success envelope. Only the first data value is used.
func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:  StatusSuccess,
		Message: msg,
	}

	if len(data) > 0 && data[0] != nil {
		resp.Data = data[0]
	}

	return resp
}

func ErrorResponse(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

func ValidationErrorResponse(err error) Response {
	return Response{
		Status:  StatusError,
		Message: "Validation failed. Please check the provided data.",
		Errors:  getValidationErrors(err),
	}
}

func getValidationErrors(err error) []validationError {
	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return nil
	}

	errs := make([]validationError, 0, len(validateErrs))
	for _, e := range validateErrs {
		errs = append(errs, validationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issueMessage(e),
		})
	}

	return errs
}

func issueMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Invalid url."
	case "email":
		return "Invalid email."
	case "min":
		return fmt.Sprintf("Must be at least %s characters long.", e.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long.", e.Param())
	case "eqfield":
		return fmt.Sprintf("Must match %s.", e.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", e.Tag())
	}
}
