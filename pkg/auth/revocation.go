// pkg/auth/revocation.go
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers token ids that were signed out before they expired
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	// Claim revokes the token id and reports whether this call did it.
	// Of any number of concurrent claims on one id, exactly one wins.
	Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error)
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevocationList keeps revoked ids in process memory.
// Entries are pruned once their token would have expired anyway.
type MemoryRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty in-process revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks the token id as revoked until expiresAt
func (l *MemoryRevocationList) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked()
	if expiresAt.After(l.now()) {
		l.revoked[tokenID] = expiresAt
	}
	return nil
}

// Claim revokes the token id unless it is already revoked or expired
func (l *MemoryRevocationList) Claim(_ context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !expiresAt.After(now) {
		return false, nil
	}
	if exp, ok := l.revoked[tokenID]; ok && exp.After(now) {
		return false, nil
	}
	l.revoked[tokenID] = expiresAt
	return true, nil
}

// IsRevoked reports whether the token id was revoked
func (l *MemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(l.now()) {
		delete(l.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// Len returns the number of live entries
func (l *MemoryRevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked()
	return len(l.revoked)
}

// Prune drops entries whose tokens have expired and reports how many went
func (l *MemoryRevocationList) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked()
}

func (l *MemoryRevocationList) pruneLocked() int {
	now := l.now()
	removed := 0
	for id, exp := range l.revoked {
		if !exp.After(now) {
			delete(l.revoked, id)
			removed++
		}
	}
	return removed
}

// RedisRevocationList stores revoked ids as keys that expire with the token
type RedisRevocationList struct {
	rc     redis.UniversalClient
	prefix string
}

// NewRedisRevocationList creates a revocation list backed by Redis
func NewRedisRevocationList(rc redis.UniversalClient, prefix string) *RedisRevocationList {
	if prefix == "" {
		prefix = "taskboard:revoked"
	}
	return &RedisRevocationList{rc: rc, prefix: prefix}
}

func (l *RedisRevocationList) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", l.prefix, tokenID)
}

// Revoke marks the token id as revoked until expiresAt
func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := l.rc.Set(ctx, l.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Claim revokes the token id with SET NX so only the first caller wins
func (l *RedisRevocationList) Claim(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return false, nil
	}
	ok, err := l.rc.SetNX(ctx, l.key(tokenID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim token: %w", err)
	}
	return ok, nil
}

// IsRevoked reports whether the token id was revoked
func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.rc.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
