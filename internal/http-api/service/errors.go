package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrSignupConflict   = errors.New("this email or username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
)

// NonFieldErrors is the key for errors that belong to the payload as a whole.
const NonFieldErrors = "non_field_errors"

// ValidationError carries per-field messages, rendered as {"field": ["msg"]}.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

var (
	ErrInvalidConfirmationCode = NewValidationError("confirmation_code", "invalid confirmation code")
	ErrDuplicateReview         = NewValidationError(NonFieldErrors, "you cannot leave more than one review")
)
