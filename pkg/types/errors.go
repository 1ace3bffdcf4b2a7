// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable marks a network or auth failure from the generation
// or embedding service. Callers degrade the affected unit rather than
// aborting the run: a failed embedding leaves the unit unscored, a failed
// rewrite falls back to the pre-rewrite text.
var ErrServiceUnavailable = errors.New("service unavailable")

// MalformedInputError reports an outline or section missing a required
// field. It is the only fatal error class in the pipeline core.
type MalformedInputError struct {
	// Field names the offending field, e.g. "section[2].heading".
	Field string

	// Reason explains what is wrong with it.
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Reason)
}

// IsMalformed reports whether err is (or wraps) a MalformedInputError.
func IsMalformed(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}
