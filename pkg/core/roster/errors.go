package roster

import "errors"

// Data-integrity errors. These indicate a corrupt precondition from the
// persistence layer (a signup or judge referencing an event the store
// doesn't know about) and are distinct from empty-input conditions,
// which are never errors.
var (
	ErrUnknownEvent    = errors.New("unknown event")
	ErrUnknownCategory = errors.New("unknown event category")
)
