package postgres

import (
	"errors"

	"github.com/lib/pq"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// violatedConstraint returns the constraint name of a foreign-key violation,
// or "" when err is not one. Used to turn FK failures from races (the target
// row vanished between the service check and the insert) into the matching
// not-found error.
func violatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
		return pqErr.Constraint
	}
	return ""
}
