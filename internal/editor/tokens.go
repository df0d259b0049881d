package editor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTokenTTL is how long an unused submit token stays valid.
const DefaultTokenTTL = time.Hour

// Tokens issues single-use submit tokens. Each open modal carries one; the
// first save consumes it and repeated submits of the same form are dropped.
type Tokens struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	issued map[string]time.Time
}

// NewTokens returns a registry whose tokens expire after ttl. A zero ttl
// selects DefaultTokenTTL.
func NewTokens(ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{ttl: ttl, now: time.Now, issued: make(map[string]time.Time)}
}

// Issue returns a fresh token.
func (t *Tokens) Issue() string {
	token := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for k, exp := range t.issued {
		if now.After(exp) {
			delete(t.issued, k)
		}
	}
	t.issued[token] = now.Add(t.ttl)
	return token
}

// Consume reports whether token was issued and not yet used or expired.
// It returns true at most once per token.
func (t *Tokens) Consume(token string) bool {
	if token == "" {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	exp, ok := t.issued[token]
	if !ok {
		return false
	}
	delete(t.issued, token)
	return !t.now().After(exp)
}

// Len returns the number of outstanding tokens.
func (t *Tokens) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.issued)
}
