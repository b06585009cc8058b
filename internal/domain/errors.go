package domain

import "errors"

var (
	ErrInvalidCIDR            = errors.New("invalid cidr")
	ErrInvalidAddress         = errors.New("invalid address")
	ErrUnresolvableHost       = errors.New("unresolvable host")
	ErrRouteCreationFailed    = errors.New("route creation failed")
	ErrMalformedInputDocument = errors.New("malformed input document")

	// ErrRouteAlreadyExists marks a creation rejected because the table
	// already holds the destination. It is always reported alongside
	// ErrRouteCreationFailed.
	ErrRouteAlreadyExists = errors.New("route already exists")
)
