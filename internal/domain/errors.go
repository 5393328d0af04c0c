package domain

import "errors"

// Domain errors.
var (
	ErrCycleInProgress     = errors.New("a translation cycle is already running")
	ErrNodeGone            = errors.New("node is no longer live")
	ErrEmptyText           = errors.New("node text is empty")
	ErrMalformedLine       = errors.New("malformed cache line")
	ErrCacheUnread         = errors.New("cache store could not be read")
	ErrUnknownBackend      = errors.New("unknown cache backend")
	ErrFontNotFound        = errors.New("font file not found")
	ErrProviderUnavailable = errors.New("translation provider is not configured")
)
