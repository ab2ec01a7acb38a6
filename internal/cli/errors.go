package cli

import (
	"errors"

	"kanban-cli/internal/mutate"
	"kanban-cli/internal/order"
	"kanban-cli/internal/store"
)

// errorCode classifies err for scripted callers.
func errorCode(err error) string {
	var nf store.NotFoundError
	var iie mutate.InvalidInputError
	var ape mutate.ArchivedParentError
	var de order.DenseError
	var se staleError
	switch {
	case errors.As(err, &nf), errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.As(err, &iie):
		return "invalid_input"
	case errors.As(err, &ape):
		return "archived_parent"
	case errors.As(err, &se):
		return "stale"
	case errors.As(err, &de):
		return "invariant_violation"
	default:
		return "error"
	}
}

func errorBody(err error) map[string]any {
	return map[string]any{
		"code":    errorCode(err),
		"message": err.Error(),
	}
}

type staleError struct {
	kind string
	id   string
}

func (e staleError) Error() string {
	return e.kind + " is archived or was removed: " + e.id
}
