package reconcile

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by ingestion. Callers distinguish them with errors.Is.
var (
	// ErrFetchFailed covers transport failures, non-2xx responses and unparsable documents.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedFeed marks a parsed document without the canonical URL needed for dedup.
	ErrMalformedFeed = errors.New("malformed feed")
	// ErrNotFound marks a reference to a feed (or other record) that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage covers every persistence failure.
	ErrStorage = errors.New("storage error")
	// ErrInvalidInput marks a request rejected before any work was done.
	ErrInvalidInput = errors.New("invalid input")
)

var kinds = []error{ErrFetchFailed, ErrMalformedFeed, ErrNotFound, ErrStorage, ErrInvalidInput}

// Wrap tags err with kind while keeping err inspectable.
// Errors that already carry a kind are returned unchanged.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// Errorf builds an error of the given kind from a format string.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// Kind returns the ingestion error kind carried by err, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
