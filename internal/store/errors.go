package store

import (
	"errors"
	"fmt"
)

// errEmptyResponse means the gateway accepted a write but returned no
// canonical record, so the in-memory copy cannot be reconciled.
var errEmptyResponse = errors.New("gateway returned no record")

type notFoundError struct {
	kind string
	id   int64
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.kind, e.id)
}

func errNotFound(kind string, id int64) error {
	return notFoundError{kind: kind, id: id}
}

// IsNotFound reports whether err is a missing-entity lookup.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}
