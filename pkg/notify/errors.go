package notify

import "errors"

// Hub errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrObjectDisposed  = errors.New("object disposed")
)
