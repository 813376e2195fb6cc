package services

import "errors"

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("not authorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a caller-facing reason together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

var (
	ErrComplaintNotFound = &Error{Kind: ErrNotFound, Message: "complaint not found"}
	ErrUserNotFound      = &Error{Kind: ErrNotFound, Message: "user not found"}
	ErrRatingNotFound    = &Error{Kind: ErrNotFound, Message: "complaint has not been rated"}
	ErrEmailTaken        = &Error{Kind: ErrConflict, Message: "email already registered"}
	ErrAlreadyRated      = &Error{Kind: ErrConflict, Message: "complaint has already been rated"}
	ErrStaleComplaint    = &Error{Kind: ErrConflict, Message: "complaint was modified concurrently, reload and retry"}
	ErrLastSuperAdmin    = &Error{Kind: ErrConflict, Message: "at least one super_admin must remain"}
	ErrStaffOnly         = &Error{Kind: ErrUnauthorized, Message: "only admins can perform this action"}
	ErrSuperAdminOnly    = &Error{Kind: ErrUnauthorized, Message: "only super admins can perform this action"}
	ErrStudentOnly       = &Error{Kind: ErrUnauthorized, Message: "only students can perform this action"}
	ErrNotOwner          = &Error{Kind: ErrUnauthorized, Message: "you do not own this complaint"}
	ErrNotResolved       = &Error{Kind: ErrUnauthorized, Message: "only resolved or closed complaints can be rated"}
)

// Identity errors surface as 401 and stay outside the kind taxonomy.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}
