package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ReservedUsername cannot be registered: it names the caller's own profile route.
const ReservedUsername = "me"

var (
	usernameSymbols = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// now is replaced in tests.
var now = time.Now

// ValidateUsername rejects the reserved name and lists every disallowed
// character in order of appearance.
func ValidateUsername(username string) error {
	if username == ReservedUsername {
		return NewValidationError("username", fmt.Sprintf("username %q is not allowed", ReservedUsername))
	}
	if usernameSymbols.MatchString(username) {
		return nil
	}
	var bad strings.Builder
	for _, r := range username {
		if !usernameSymbols.MatchString(string(r)) {
			bad.WriteRune(r)
		}
	}
	return NewValidationError("username", fmt.Sprintf("disallowed characters: %s", bad.String()))
}

// ValidateYear rejects years after the current one.
func ValidateYear(year int) error {
	if year > now().Year() {
		return NewValidationError("year", fmt.Sprintf("%d cannot be later than the current year", year))
	}
	return nil
}

func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return NewValidationError("slug", "enter a valid slug of letters, numbers, underscores or hyphens")
	}
	return nil
}
