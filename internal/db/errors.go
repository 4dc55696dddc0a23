package db

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	return hasCode(err, PgUniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, PgForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
