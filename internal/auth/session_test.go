package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/domain"
)

var secret = []byte("test-secret")

func adminUser() domain.User {
	return domain.User{ID: "u1", Email: "admin@example.com", FirstName: "Ada", LastName: "Admin", Role: domain.RoleAdmin}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	token, err := Sign(secret, adminUser(), time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := Verify(secret, token)
	require.NoError(t, err)
	assert.Equal(t, adminUser(), claims.User())
	assert.NotEmpty(t, claims.TokenID)

	_, err = Verify([]byte("other"), token)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := Sign(secret, adminUser(), time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = Verify(secret, token)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.False(t, s.HasToken())
	assert.False(t, s.IsAdmin())

	token, err := Sign(secret, adminUser(), time.Hour, time.Now())
	require.NoError(t, err)

	s.Start(token, adminUser())
	assert.True(t, s.HasToken())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, token, s.Token())
	assert.False(t, s.ExpiresAt().IsZero())

	s.End()
	assert.False(t, s.HasToken())
	assert.Empty(t, s.User().ID)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Now()
	s := NewSession()
	s.now = func() time.Time { return now }

	token, err := Sign(secret, adminUser(), time.Minute, now)
	require.NoError(t, err)
	s.Start(token, domain.User{})
	assert.True(t, s.HasToken())
	assert.Equal(t, "u1", s.User().ID, "user falls back to token claims")

	now = now.Add(2 * time.Minute)
	assert.False(t, s.HasToken(), "expired token must not be used")
}

func TestRestore(t *testing.T) {
	s := NewSession()

	user := adminUser()
	user.Role = "Employee"
	token, err := Sign(secret, user, time.Hour, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Restore(token))
	assert.True(t, s.HasToken())
	assert.False(t, s.IsAdmin())

	expired, err := Sign(secret, user, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	fresh := NewSession()
	err = fresh.Restore(expired)
	assert.True(t, domain.IsUnauthorized(err))
	assert.False(t, fresh.HasToken())

	assert.Error(t, fresh.Restore("not-a-jwt"))
}

func TestOpaqueTokenHasNoExpiry(t *testing.T) {
	s := NewSession()
	s.Start("opaque", adminUser())
	assert.True(t, s.HasToken())
	assert.True(t, s.ExpiresAt().IsZero())
}
