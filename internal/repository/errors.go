package repository

import (
	"errors"
	"strings"

	"rhp-backend/internal/apperrors"

	"gorm.io/gorm"
)

// likeEscaper escapes LIKE wildcards so a search term matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// notFoundOr converts a missing-row error into a NotFoundError and passes any
// other error through untouched.
func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource, id)
	}
	return err
}
