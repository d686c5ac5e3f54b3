package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// pgUniqueViolation is the postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}
