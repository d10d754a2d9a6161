package stepscale

import "errors"

// ErrInvalidThreshold is returned for a malformed threshold table.
var ErrInvalidThreshold = errors.New("invalid step threshold")
