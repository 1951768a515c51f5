// Package token mints and verifies the short-lived signed tokens that gate
// the file-download delivery path. Tokens are stateless: validity is fully
// determined by content, signature, and clock.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"noryx/internal/shared/errors"
)

// DownloadClaims is the parsed payload of a valid token.
type DownloadClaims struct {
	UserID          uint
	SubscriptionRef string
	ExpiresAt       time.Time
}

// DownloadTokenService issues and verifies download tokens. Wire format:
// base64url("userId:subscriptionRef:expiresAtMs:hexSignature"), where the
// signature is HMAC-SHA256 over "userId:subscriptionRef:expiresAtMs".
type DownloadTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewDownloadTokenService creates a service with the given signing secret and
// token time-to-live.
func NewDownloadTokenService(secret string, ttl time.Duration) *DownloadTokenService {
	return &DownloadTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *DownloadTokenService) WithClock(now func() time.Time) *DownloadTokenService {
	s.now = now
	return s
}

// TTL returns the configured token time-to-live.
func (s *DownloadTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token binding the (user, subscription) pair. No server-side
// record is kept.
func (s *DownloadTokenService) Issue(userID uint, subscriptionRef string) string {
	expiresAt := s.now().Add(s.ttl).UnixMilli()
	payload := fmt.Sprintf("%d:%s:%d", userID, subscriptionRef, expiresAt)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + s.sign(payload)))
}

// Verify parses and validates a token. Every failure mode returns the same
// invalid-token error; callers must not distinguish causes externally.
func (s *DownloadTokenService) Verify(token string) (*DownloadClaims, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.NewInvalidTokenError()
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 4 {
		return nil, errors.NewInvalidTokenError()
	}

	userID, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return nil, errors.NewInvalidTokenError()
	}
	expiresAtMs, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, errors.NewInvalidTokenError()
	}

	expiresAt := time.UnixMilli(expiresAtMs)
	if !s.now().Before(expiresAt) {
		return nil, errors.NewInvalidTokenError()
	}

	payload := strings.Join(parts[:3], ":")
	expected := s.sign(payload)
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return nil, errors.NewInvalidTokenError()
	}

	return &DownloadClaims{
		UserID:          uint(userID),
		SubscriptionRef: parts[1],
		ExpiresAt:       expiresAt,
	}, nil
}

func (s *DownloadTokenService) sign(payload string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
