package etl

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidDefinition marks configuration problems detected before any
// extraction begins. Wrap it with the concrete reason.
var ErrInvalidDefinition = errors.New("invalid pipeline definition")

// UnsupportedTypeError is returned when a connector tag is not present in the
// registry at all. The message enumerates the supported tags so a typo is
// easy to spot.
type UnsupportedTypeError struct {
	Role      string // "source" or "destination"
	Type      string
	Supported []string
}

func (e *UnsupportedTypeError) Error() string {
	supported := append([]string(nil), e.Supported...)
	sort.Strings(supported)
	return fmt.Sprintf("%s type %q is not supported (supported types: %s)",
		e.Role, e.Type, strings.Join(supported, ", "))
}

// NotImplementedError is returned when a connector tag is registered but its
// factory is a stub. Distinguished from UnsupportedTypeError so operators
// know the tag is a roadmap gap, not a typo.
type NotImplementedError struct {
	Role string
	Type string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s type %q is not implemented yet", e.Role, e.Type)
}
