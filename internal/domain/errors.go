package domain

import "errors"

var (
	// ErrInvalidInput signals a missing or malformed input value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyExists signals a duplicate value on insert.
	ErrAlreadyExists = errors.New("string already exists in the system")
	// ErrNotFound signals a missing record on read or delete.
	ErrNotFound = errors.New("string does not exist in the system")
	// ErrInvalidFilter signals a malformed structured filter parameter.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnparseableQuery signals that no natural-language rule matched.
	ErrUnparseableQuery = errors.New("unable to parse natural language query")
	// ErrConflictingFilters signals that parsed rules disagree on a clause.
	ErrConflictingFilters = errors.New("query parsed to conflicting filters")
)
