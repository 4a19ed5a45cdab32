package metrics

import (
	"errors"

	"feedsync/core/reconcile"
)

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, reconcile.ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, reconcile.ErrMalformedFeed):
		return "malformed_feed"
	case errors.Is(err, reconcile.ErrNotFound):
		return "not_found"
	case errors.Is(err, reconcile.ErrStorage):
		return "storage_error"
	case errors.Is(err, reconcile.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
