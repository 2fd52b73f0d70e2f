package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// unique_violation
const pgUniqueViolation = "23505"

var (
	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateName     = errors.New("name already in use")
	ErrDuplicateSlug     = errors.New("slug already in use")
	ErrDuplicateReview   = errors.New("review already exists for this title and author")
	ErrDuplicate         = errors.New("duplicate value")
)

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// constraintName returns the violated constraint when the driver reports it.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// classifyUnique maps a unique violation to the sentinel of the constraint whose
// name contains the given key; unknown constraints map to ErrDuplicate.
// Non-unique errors are returned unchanged.
func classifyUnique(err error, byKey map[string]error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	name := strings.ToLower(constraintName(err))
	if name == "" {
		// fall back on the message, e.g. when the error was re-wrapped as text
		name = strings.ToLower(err.Error())
	}
	for key, sentinel := range byKey {
		if strings.Contains(name, key) {
			return sentinel
		}
	}
	return ErrDuplicate
}

// paginate applies page-number pagination, page is 1-based.
func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern is the ILIKE pattern matching s anywhere, used with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
