package datastore

import (
	"errors"

	"github.com/lib/pq"
)

// undefinedColumnCode is the Postgres error code for "undefined_column".
const undefinedColumnCode = "42703"

// IsUnknownColumn reports whether err is the datastore rejecting a record
// field the target schema does not have. This is the only persistence
// error class the upsert retries, using the minimal record shape. The
// classification is by error code, not message text, so it survives server
// locale and version changes.
func IsUnknownColumn(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedColumnCode
}
