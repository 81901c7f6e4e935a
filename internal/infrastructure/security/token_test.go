package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

const testSecret = "test-secret-key-for-unit-testing-0123456789"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func testUser() *domain.User {
	return &domain.User{ID: "user001", Role: domain.RoleGeneralUser, Email: "john@example.com"}
}

func TestNewTokenService_RejectsWeakSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	require.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService("default_secret", time.Hour)
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService(testSecret, 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, svc.TTL())
}

func TestIssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.Equal(t, clock.t.Add(time.Hour), issued.ExpiresAt)

	p, err := svc.Verify(issued.Token)
	require.NoError(t, err)
	require.Equal(t, domain.Principal{ID: "user001", Role: domain.RoleGeneralUser, Email: "john@example.com"}, *p)
}

func TestVerify_ExpiredToken(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	svc := newTestTokenService(t, clock)

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	clock.t = issued.ExpiresAt.Add(-time.Second)
	_, err = svc.Verify(issued.Token)
	require.NoError(t, err)

	clock.t = issued.ExpiresAt
	_, err = svc.Verify(issued.Token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)

	clock.t = issued.ExpiresAt.Add(time.Second)
	_, err = svc.Verify(issued.Token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVerify_TamperedSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for bit := 0; bit < 8; bit++ {
		flipped := append([]byte(nil), sig...)
		flipped[len(flipped)/2] ^= 1 << bit
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

		_, err := svc.Verify(tampered)
		require.ErrorIs(t, err, domain.ErrTokenInvalid, "bit %d", bit)
	}
}

func TestVerify_TamperedClaims(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	parts := strings.Split(issued.Token, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	elevated := strings.Replace(string(payload), `"General User"`, `"Admin"`, 1)
	forged := parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(elevated)) + "." + parts[2]

	_, err = svc.Verify(forged)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)
	other, err := NewTokenService(strings.Repeat("x", MinSecretLength), time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	issued, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(issued.Token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	claims := Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin001",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_MissingExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(t, clock)

	claims := Claims{
		Role:             domain.RoleGeneralUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user001", Issuer: issuer},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestTokenService(t, &fakeClock{t: time.Now()})
	_, err := svc.Verify("not-a-token")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}
