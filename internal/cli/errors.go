package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

func errLocked(clipID string) error {
	return fmt.Errorf("track is locked (unlock it or set MONTAGE_IGNORE_LOCKS=1): %s", clipID)
}
