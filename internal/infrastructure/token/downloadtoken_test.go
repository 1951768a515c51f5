package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := NewDownloadTokenService(testSecret, 300*time.Second)

	tok := svc.Issue(42, "user_42_1700000000000@noryx.vpn")
	claims, err := svc.Verify(tok)

	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user_42_1700000000000@noryx.vpn", claims.SubscriptionRef)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	ttl := 300 * time.Second

	svc := NewDownloadTokenService(testSecret, ttl).WithClock(fixedClock(issuedAt))
	tok := svc.Issue(7, "ref")

	cases := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"just before expiry", issuedAt.Add(ttl - time.Millisecond), false},
		{"exactly at expiry", issuedAt.Add(ttl), true},
		{"just after expiry", issuedAt.Add(ttl + time.Millisecond), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc.WithClock(fixedClock(tc.now))
			_, err := svc.Verify(tok)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	svc := NewDownloadTokenService(testSecret, time.Minute)
	tok := svc.Issue(1, "ref")

	decoded, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)

	// Flip one character in the signature segment.
	raw := []byte(decoded)
	last := len(raw) - 1
	if raw[last] == 'a' {
		raw[last] = 'b'
	} else {
		raw[last] = 'a'
	}
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestVerify_TamperedPayload(t *testing.T) {
	svc := NewDownloadTokenService(testSecret, time.Minute)
	tok := svc.Issue(1, "ref")

	decoded, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)

	parts := strings.Split(string(decoded), ":")
	require.Len(t, parts, 4)
	parts[0] = "999" // claim a different user without re-signing
	tampered := base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, ":")))

	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestVerify_Malformed(t *testing.T) {
	svc := NewDownloadTokenService(testSecret, time.Minute)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64url", "!!!not-base64!!!"},
		{"wrong field count", base64.RawURLEncoding.EncodeToString([]byte("1:ref:123"))},
		{"non-numeric user", base64.RawURLEncoding.EncodeToString([]byte("x:ref:9999999999999:deadbeef"))},
		{"non-numeric expiry", base64.RawURLEncoding.EncodeToString([]byte("1:ref:soon:deadbeef"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestVerify_DifferentSecretFails(t *testing.T) {
	issuer := NewDownloadTokenService(testSecret, time.Minute)
	verifier := NewDownloadTokenService("other-secret", time.Minute)

	tok := issuer.Issue(1, "ref")
	_, err := verifier.Verify(tok)
	assert.Error(t, err)
}
