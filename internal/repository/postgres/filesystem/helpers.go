package filesystem

import (
	"fmt"
	"strings"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/repository/postgres"
)

// stateClause narrows a query on the given alias by soft-delete flag
func stateClause(alias string, state models.DeletionState) string {
	switch state {
	case models.Live:
		return fmt.Sprintf(" AND %s.is_deleted = FALSE", alias)
	case models.Trashed:
		return fmt.Sprintf(" AND %s.is_deleted = TRUE", alias)
	default:
		return ""
	}
}

// likePattern wraps term for a substring ILIKE, escaping wildcards
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// notFoundOr maps missing rows and malformed ids to domain.ErrNotFound
func notFoundOr(err error, entity, id, op string) error {
	if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidInputError(err) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nonNil keeps NULL out of array parameters
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
