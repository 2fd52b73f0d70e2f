package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
}

func TestClassifyUnique(t *testing.T) {
	byKey := map[string]error{"username": ErrDuplicateUsername, "email": ErrDuplicateEmail}

	assert.ErrorIs(t,
		classifyUnique(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, byKey),
		ErrDuplicateEmail)
	assert.ErrorIs(t,
		classifyUnique(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, byKey),
		ErrDuplicateUsername)
	assert.ErrorIs(t,
		classifyUnique(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}, byKey),
		ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, classifyUnique(other, byKey))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%mat%", containsPattern("mat"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
