package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when username or password is wrong.
	// Deliberately generic: callers must not reveal which field failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("username or email already registered")
	// ErrVerificationFailed is returned for a wrong or expired code and for a
	// dead verification ticket. One message for all three, so the response
	// never signals which condition failed.
	ErrVerificationFailed = errors.New("invalid or expired code")
	// ErrStudentsOnly is returned when a non-student reaches a student route.
	ErrStudentsOnly = errors.New("students only")
	// ErrNotAuthorized is returned when a student has not completed verification.
	ErrNotAuthorized = errors.New("account not authorized")
	// ErrAdminsOnly is returned when a non-admin reaches an admin route.
	ErrAdminsOnly = errors.New("administrators only")
	// ErrCourseNotFound is returned when a course does not exist or is unpublished.
	ErrCourseNotFound = errors.New("course not found")
	// ErrEnrollmentNotFound is returned when an enrollment record does not exist.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrEnrollmentNotApproved is returned when course content is requested
	// without an approved enrollment.
	ErrEnrollmentNotApproved = errors.New("enrollment not approved")
	// ErrInvalidSession is returned for a revoked or malformed session token.
	ErrInvalidSession = errors.New("invalid or expired session")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Role and approval
// failures are forbidden responses rather than redirects, so probing a
// gated route leaks nothing about what exists behind it.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrVerificationFailed):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_OR_EXPIRED_CODE")
	case errors.Is(err, ErrStudentsOnly):
		return NewHTTPError(http.StatusForbidden, err.Error(), "STUDENTS_ONLY")
	case errors.Is(err, ErrNotAuthorized):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_AUTHORIZED")
	case errors.Is(err, ErrAdminsOnly):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMINS_ONLY")
	case errors.Is(err, ErrCourseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COURSE_NOT_FOUND")
	case errors.Is(err, ErrEnrollmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENROLLMENT_NOT_FOUND")
	case errors.Is(err, ErrEnrollmentNotApproved):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ENROLLMENT_NOT_APPROVED")
	case errors.Is(err, ErrInvalidSession):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_SESSION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
