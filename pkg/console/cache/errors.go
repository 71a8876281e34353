package cache

import "github.com/m-mizutani/goerr/v2"

// ErrObserverClosed is returned by operations on an unmounted observer
var ErrObserverClosed = goerr.New("observer is closed")

// Context keys for error values
const (
	KeyKey        = "cache_key"
	GenerationKey = "generation"
)
