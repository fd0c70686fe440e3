// Package scopes encodes and decodes resource:action authorization grants.
// A scope string is the lowercase resource and action joined by a colon,
// e.g. "billing:read". Encode/Decode form a lossless bijection for inputs
// that don't themselves contain the separator.
package scopes

import (
	"errors"
	"strings"
)

// Separator joins the resource and action parts of a scope string.
const Separator = ":"

// ErrMalformed reports a scope string missing its separator.
var ErrMalformed = errors.New("scopes: malformed scope")

// Encode builds the canonical scope string for a resource/action pair.
func Encode(resource, action string) string {
	return strings.ToLower(resource) + Separator + strings.ToLower(action)
}

// Decode splits a scope string back into its resource and action parts.
// The split is on the first separator, so actions containing a colon decode
// to their original form only through Encode's output.
func Decode(scope string) (resource, action string, err error) {
	resource, action, ok := strings.Cut(scope, Separator)
	if !ok || resource == "" || action == "" {
		return "", "", ErrMalformed
	}
	return strings.ToLower(resource), strings.ToLower(action), nil
}

// Valid reports whether s decodes as a scope string.
func Valid(s string) bool {
	_, _, err := Decode(s)
	return err == nil
}
