// Package ratelimit authenticates bearer API keys and enforces a per-key request quota.
package ratelimit

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

const (
	msgMissingBearer = "Missing or invalid Authorization header. Format should be: 'Bearer YOUR_API_KEY'"
	msgInvalidKey    = "Invalid API key"
	msgQuotaExceeded = "Rate limit exceeded. Please upgrade your plan for more requests."
)

// Credential is an authenticated API key and its request allowance for the current period.
type Credential struct {
	Key   string
	Quota int
}

type Limiter struct {
	keys  []string
	quota int
	store CounterStore
}

func NewLimiter(keys []string, quota int, store CounterStore) *Limiter {
	return &Limiter{
		keys:  keys,
		quota: quota,
		store: store,
	}
}

// ParseBearer extracts the token from an Authorization header of the form "Bearer <token>".
// The token is the second space-separated field, so extra spaces leave it empty.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", apperrors.New(apperrors.KindUnauthorized, "auth.bearer", msgMissingBearer)
	}
	token := strings.Split(header, " ")[1]
	if token == "" {
		return "", apperrors.New(apperrors.KindUnauthorized, "auth.bearer", msgInvalidKey)
	}
	return token, nil
}

// Authenticate resolves token to a configured credential.
func (l *Limiter) Authenticate(token string) (Credential, error) {
	found := false
	for _, key := range l.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1 {
			found = true
		}
	}
	if !found {
		return Credential{}, apperrors.New(apperrors.KindUnauthorized, "auth.authenticate", msgInvalidKey)
	}
	return Credential{Key: token, Quota: l.quota}, nil
}

// CheckAndConsume takes one request from cred's allowance and returns what is left.
// An exhausted credential is refused without touching its counter.
func (l *Limiter) CheckAndConsume(ctx context.Context, cred Credential) (int, error) {
	used, consumed, err := l.store.Consume(ctx, cred.Key, cred.Quota)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInternal, "auth.quota", "failed to update usage", err)
	}
	if !consumed {
		return 0, apperrors.New(apperrors.KindQuotaExceeded, "auth.quota", msgQuotaExceeded)
	}

	remaining := cred.Quota - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
