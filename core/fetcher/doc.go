// Package fetcher retrieves remote syndication documents (RSS, Atom, JSON Feed)
// and parses them into FeedDocuments.
//
// A FeedDocument carries the channel metadata and at most Config.MaxItems items
// (10 by default) in document order. The whole item list is delivered at once;
// callers never see partial documents. Every failure (invalid URL, transport
// error, non-2xx status, oversized body, unparsable document) is reported as
// reconcile.ErrFetchFailed wrapping the cause.
//
// The canonical feed URL (FeedMeta.XMLURL) is taken from the document's self
// link only. A document without one parses fine; rejecting it is the
// reconciler's job.
//
// Optional behaviour:
//   - per-host throttling (Config.HostIntervalMs) through golang.org/x/time/rate
//   - concurrent fetches of the same URL share a single request (singleflight)
//   - successfully parsed bodies are handed to an Archiver (see storage.Archive)
package fetcher
