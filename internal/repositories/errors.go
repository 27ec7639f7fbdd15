package repositories

import (
	"homecare_client/internal/apperrors"
)

// ErrNotFound is returned (wrapped in *apperrors.NotFoundError) when a record
// does not exist on the server or a filtered lookup comes back empty.
var ErrNotFound = apperrors.ErrNotFound

func notFound(resource string, id int64) error {
	return &apperrors.NotFoundError{Resource: resource, ID: idString(id)}
}
