// Package accesscache remembers on the client that investor access was granted.
//
// The token is advisory: it only records when a code was last accepted and
// expires thirty days later. It does not authenticate anything on the server.
package accesscache

import (
	"encoding/json"
	"time"
)

const (
	StorageKey = "vitalos-investors-access"
	TTL        = 30 * 24 * time.Hour
)

// Token is the stored value.
type Token struct {
	// GrantedAt is epoch milliseconds.
	GrantedAt int64 `json:"grantedAt"`
}

func (t Token) Time() time.Time {
	return time.UnixMilli(t.GrantedAt)
}

type Cache struct {
	store Storage
	now   func() time.Time
}

func New(store Storage) *Cache {
	return &Cache{store: store, now: time.Now}
}

// WithClock returns a copy of c reading time from now.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	cp := *c
	cp.now = now
	return &cp
}

// Grant records that access was granted now.
func (c *Cache) Grant() error {
	data, err := json.Marshal(Token{GrantedAt: c.now().UnixMilli()})
	if err != nil {
		return err
	}
	return c.store.SetItem(StorageKey, string(data))
}

// IsValid reports whether a grant exists and is at most TTL old.
// Missing, unreadable and corrupt entries are all simply invalid.
func (c *Cache) IsValid() bool {
	tok, ok := c.Token()
	if !ok {
		return false
	}
	return c.now().UnixMilli()-tok.GrantedAt <= TTL.Milliseconds()
}

// Token returns the stored grant, if any can be read.
func (c *Cache) Token() (Token, bool) {
	raw, ok, err := c.store.GetItem(StorageKey)
	if err != nil || !ok {
		return Token{}, false
	}
	var tok Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil || tok.GrantedAt == 0 {
		return Token{}, false
	}
	return tok, true
}

// ExpiresAt is when the current grant stops being valid.
func (c *Cache) ExpiresAt() (time.Time, bool) {
	tok, ok := c.Token()
	if !ok {
		return time.Time{}, false
	}
	return tok.Time().Add(TTL), true
}

func (c *Cache) Revoke() error {
	return c.store.RemoveItem(StorageKey)
}
