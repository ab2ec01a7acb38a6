package mutate

import "fmt"

type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ArchivedParentError is returned when creating or restoring under an archived container.
type ArchivedParentError struct {
	Kind string
	ID   string
}

func (e ArchivedParentError) Error() string {
	return fmt.Sprintf("%s is archived: %s", e.Kind, e.ID)
}
