// Package accounts manages readers and their relation to feeds and articles.
//
// Ingestion never calls into this package; the subscription date and the
// read/starred state are only changed here.
//
// # HTTP Endpoints
//
//   - POST /accounts : create an account (password stored as a bcrypt hash).
//   - POST /accounts/:id/feeds/:feedId : subscribe, setting subdate on first call.
//   - PUT /accounts/:id/articles/:articleId {"read", "starred"} : set article state.
package accounts
