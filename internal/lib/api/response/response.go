package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope shared by every endpoint. Handlers embed it and
// add their payload next to it.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Machine-readable error codes.
const (
	CodeMissingSlug       = "MISSING_SLUG"
	CodeInvalidSlugFormat = "INVALID_SLUG_FORMAT"
	CodeEventNotFound     = "EVENT_NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeCast              = "CAST_ERROR"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeInvalidForm       = "INVALID_FORM"
	CodeMissingImage      = "MISSING_IMAGE"
	CodeInvalidTags       = "INVALID_TAGS"
	CodeInvalidAgenda     = "INVALID_AGENDA"
	CodeImageUpload       = "IMAGE_UPLOAD_FAILED"
	CodeEventCreate       = "EVENT_CREATE_FAILED"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

func OK(message string) Response {
	return Response{
		Status:  StatusOK,
		Message: message,
	}
}

func Error(code, message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
		Error:   code,
	}
}

func (r Response) WithDetails(details string) Response {
	r.Details = details

	return r
}

// Internal builds a 500 body. The error text is only attached when verbose
// is set, which main turns off in production.
func Internal(message string, err error, verbose bool) Response {
	resp := Error(CodeInternal, message)
	if verbose && err != nil {
		resp.Details = err.Error()
	}

	return resp
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "slug":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must contain only lowercase letters, numbers and hyphens", err.Field()))
		case "simple_email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must contain at least %s item(s)", err.Field(), err.Param()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(CodeValidation, "Validation error occurred").WithDetails(strings.Join(errMsgs, ", "))
}
