package database

import (
	"errors"
	"fmt"
	"strings"

	"anoa.com/studentprofile/pkg/apperror"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// TranslateError maps storage errors onto apperror kinds. Unique violations
// become 409 with a message naming the offending field.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w", apperror.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Conflict(conflictMessage(pgErr.ConstraintName+" "+pgErr.Detail))
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict(conflictMessage(err.Error()))
	}

	// sqlite reports unique violations only through the message text
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return apperror.Conflict(conflictMessage(msg))
	}

	return err
}

func conflictMessage(hint string) string {
	hint = strings.ToLower(hint)
	switch {
	case strings.Contains(hint, "usn"):
		return "usn is already registered to another student"
	case strings.Contains(hint, "email"):
		return apperror.ErrDuplicateAccount.Error()
	case strings.Contains(hint, "student_profiles") && strings.Contains(hint, "student_id"):
		return "a profile already exists for this student"
	case strings.Contains(hint, "user_files"):
		return "file already uploaded for this slot"
	}
	return apperror.ErrConflict.Error()
}
