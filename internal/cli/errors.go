package cli

import (
	"errors"
	"fmt"
)

var errMissingUserID = errors.New("no user id configured; pass --user-id or set api.user_id (TODOS_API_USER_ID)")

type notFoundError struct {
	kind string
	id   int
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.kind, e.id)
}

func errNotFound(kind string, id int) error {
	return notFoundError{kind: kind, id: id}
}

type partialFailureError struct {
	op     string
	failed int
	total  int
}

func (e partialFailureError) Error() string {
	return fmt.Sprintf("%s: %d of %d requests failed", e.op, e.failed, e.total)
}
