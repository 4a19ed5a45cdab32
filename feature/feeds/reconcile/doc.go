// Package reconcile writes fetched feed documents into the store.
//
// UpsertFeed keeps one Feed per canonical XMLURL and overwrites its scalar
// columns on every ingestion. UpsertArticles adds the items a feed has not
// seen before, identified by the exact (guid, link) Key; stored articles are
// never modified. Neither function touches account subscriptions or
// per-reader article state.
package reconcile
