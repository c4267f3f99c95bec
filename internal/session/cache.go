package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// ExtractFn produces plain text from raw file content.
type ExtractFn func(content []byte) (string, error)

// Fingerprint derives the cache key for raw file content. It depends only
// on the bytes, so re-uploading the same file under another name still hits
// the cache.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// DocumentCache memoizes extracted text per content fingerprint so repeat
// analyses over the same files do not re-run extraction. Failed extractions
// are never stored; the next attempt starts from scratch.
type DocumentCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewDocumentCache constructs an empty cache.
func NewDocumentCache() *DocumentCache {
	return &DocumentCache{entries: make(map[string]string)}
}

// Lookup returns the cached text for a fingerprint.
func (c *DocumentCache) Lookup(fingerprint string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[fingerprint]
	return text, ok
}

// Store records extracted text under a fingerprint.
func (c *DocumentCache) Store(fingerprint, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = text
}

// Len reports the number of cached extractions.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrExtract returns the memoized text for content, running extract only
// on a cache miss. It reports the fingerprint it used. A failed extract
// leaves the cache untouched.
func (c *DocumentCache) GetOrExtract(content []byte, extract ExtractFn) (string, string, error) {
	fp := Fingerprint(content)
	if text, ok := c.Lookup(fp); ok {
		return text, fp, nil
	}
	text, err := extract(content)
	if err != nil {
		return "", fp, err
	}
	c.Store(fp, text)
	return text, fp, nil
}
