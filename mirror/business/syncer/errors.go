package syncer

import (
	"errors"
)

var (
	ErrUnknownTask    = errors.New("unknown task kind")
	ErrInvalidListing = errors.New("invalid issue listing")
)
