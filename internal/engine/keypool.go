package engine

import (
	"strings"
	"sync"
)

// KeyPool rotates over the narration API credentials. User-supplied keys
// (newline- or comma-delimited) take precedence over the built-in default;
// an empty pool of user keys falls back to the default key.
type KeyPool struct {
	mu         sync.Mutex
	defaultKey string
	userKeys   []string
	idx        int
}

// NewKeyPool builds a pool from the default key and a raw user key string.
func NewKeyPool(defaultKey, userKeys string) *KeyPool {
	p := &KeyPool{defaultKey: defaultKey}
	p.SetUserKeys(userKeys)
	return p
}

// SetUserKeys replaces the user key list and resets rotation.
func (p *KeyPool) SetUserKeys(raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userKeys = splitKeys(raw)
	p.idx = 0
}

// Next returns the next key in rotation.
func (p *KeyPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.userKeys) == 0 {
		return p.defaultKey
	}
	key := p.userKeys[p.idx%len(p.userKeys)]
	p.idx++
	return key
}

// Len returns how many distinct keys the pool rotates over.
func (p *KeyPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.userKeys) == 0 {
		return 1
	}
	return len(p.userKeys)
}

// UsingUserKeys reports whether user-supplied keys are active.
func (p *KeyPool) UsingUserKeys() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.userKeys) > 0
}

// Status returns the display string for the API credential state.
func (p *KeyPool) Status() string {
	if p.UsingUserKeys() {
		return "Using your API keys."
	}
	return "Using the default Gemini key."
}

func splitKeys(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if k := strings.TrimSpace(f); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
