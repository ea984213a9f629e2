package common

import "errors"

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrTruncatedInput      = errors.New("truncated preset input")
	ErrUnsupportedLocation = errors.New("unsupported preset location")
	ErrPresetNotFound      = errors.New("preset not found")
)
