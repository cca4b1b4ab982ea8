package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// pendingSignup holds a signup awaiting OTP verification. The account is
// not created until the code is confirmed.
type pendingSignup struct {
	name         string
	email        string
	passwordHash string
	code         string
	expiresAt    time.Time
}

// otpCache is a time-bounded in-memory store of pending signups keyed by
// email. Entries expire after their TTL and are swept by a background
// cleanup goroutine, so abandoned signups do not accumulate.
type otpCache struct {
	mu      sync.Mutex
	entries map[string]pendingSignup
}

func newOTPCache() *otpCache {
	return &otpCache{entries: make(map[string]pendingSignup)}
}

// put stores or replaces the pending signup for an email. A repeated
// signup before verification re-issues the code.
func (c *otpCache) put(p pendingSignup) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.email] = p
}

// take removes and returns the pending signup for email. Codes are single
// use: a successful or failed verification both consume the entry only on
// success, while expiry always consumes it.
func (c *otpCache) take(email, code string, now time.Time) (pendingSignup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.entries[email]
	if !ok {
		return pendingSignup{}, false
	}
	if now.After(p.expiresAt) {
		delete(c.entries, email)
		return pendingSignup{}, false
	}
	if p.code != code {
		return pendingSignup{}, false
	}
	delete(c.entries, email)
	return p, true
}

// cleanup removes expired entries.
func (c *otpCache) cleanup(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for email, p := range c.entries {
		if now.After(p.expiresAt) {
			delete(c.entries, email)
		}
	}
}

// startCleanup launches a background goroutine that periodically evicts
// expired entries. It stops when ctx is cancelled.
func (c *otpCache) startCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.cleanup(now)
			}
		}
	}()
}

// generateCode returns a random 6-digit verification code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
