package entry

import (
	"errors"

	"github.com/fib-entry-bot/pkg/feed"
)

// ErrDataSource is a connectivity failure; it aborts the whole cycle
var ErrDataSource = feed.ErrDataSource

var (
	ErrNoTick            = errors.New("no tick info available")
	ErrNoAccount         = errors.New("account balance unavailable")
	ErrVolumeTooLow      = errors.New("order volume too low")
	ErrOrderRejected     = errors.New("order not accepted")
	ErrMissingDependency = errors.New("missing dependency")
)
