package reconcile

import (
	"crypto/sha256"
	"encoding/hex"

	"feedsync/core/fetcher"
)

// Key identifies an article within its feed. Both fields are compared
// byte for byte; a missing guid is the empty string.
type Key struct {
	GUID string
	Link string
}

// KeyOf returns the identity of a fetched item.
func KeyOf(item fetcher.ArticleItem) Key {
	return Key{GUID: item.GUID, Link: item.Link}
}

// Equal reports whether both components match exactly.
func (k Key) Equal(other Key) bool {
	return k.GUID == other.GUID && k.Link == other.Link
}

// Hash is the value stored in articles.key_hash. The NUL separator keeps
// ("ab", "c") and ("a", "bc") apart.
func (k Key) Hash() string {
	sum := sha256.Sum256([]byte(k.GUID + "\x00" + k.Link))
	return hex.EncodeToString(sum[:])
}
