package domainstore

import "errors"

var (
	// ErrNotOpen is returned when an operation is attempted without an
	// open engine connection.
	ErrNotOpen = errors.New("database not opened")
	// ErrUnknownDomain is returned for domain names outside the fixed set.
	ErrUnknownDomain = errors.New("unknown domain")
	// ErrNotFound is returned by lookups for keys that do not exist.
	ErrNotFound = errors.New("key not found")
	// ErrDeserialize is returned by typed lookups when the stored value
	// cannot be parsed.
	ErrDeserialize = errors.New("could not deserialize value")
)
