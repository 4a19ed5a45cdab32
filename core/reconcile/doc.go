// Package reconcile holds the storage primitives and error kinds shared by
// every ingestion path.
//
// Deduplication relies on unique indexes rather than locks: InsertIfAbsent
// issues an insert that is skipped on a unique-key collision, so two writers
// racing on the same natural key end up with exactly one row. The loser sees
// written == false and reloads the winner's row with FindOne.
//
// # Error kinds
//
//   - ErrFetchFailed: the remote document could not be retrieved or parsed.
//   - ErrMalformedFeed: the document has no canonical self URL.
//   - ErrNotFound: a referenced record does not exist.
//   - ErrStorage: any persistence failure.
//   - ErrInvalidInput: a request rejected before any work was done.
//
// Errors are built with Wrap or Errorf so that errors.Is matches both the kind
// and the underlying cause. Kind recovers the kind for status mapping.
package reconcile
