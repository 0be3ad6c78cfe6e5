package auth

import (
	"testing"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:      "test-secret",
		Issuer:         "smart-inventory",
		Audience:       "smart-inventory-client",
		AccessTokenTTL: time.Hour,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	token, expires, err := m.Generate(User{Username: "admin", Role: "Administrator"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "Administrator", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m, err := NewTokenManager(testConfig())
	require.NoError(t, err)
	token, _, err := m.Generate(User{Username: "demo", Role: "User"})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()
		_, err := m.Validate(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.JWTSecret = "another"
		other, err := NewTokenManager(cfg)
		require.NoError(t, err)
		_, err = other.Validate(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := testConfig()
		cfg.Audience = "someone-else"
		other, err := NewTokenManager(cfg)
		require.NoError(t, err)
		_, err = other.Validate(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin"})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Validate(s)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager(config.AuthConfig{})
	assert.Error(t, err)
}

func newStore(t *testing.T) *UserStore {
	t.Helper()
	s, err := NewUserStore(bcrypt.MinCost, DemoCredentials...)
	require.NoError(t, err)
	return s
}

func TestUserStore_Authenticate(t *testing.T) {
	s := newStore(t)

	u, err := s.Authenticate("Admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", u.Role)
	assert.False(t, u.LastLogin.IsZero())

	_, err = s.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.Authenticate("nobody", "admin123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserStore_ChangePassword(t *testing.T) {
	s := newStore(t)

	assert.ErrorIs(t, s.ChangePassword("demo", "demo123", "short"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.ChangePassword("demo", "nope", "longenough"), domain.ErrInvalidCredentials)
	assert.ErrorIs(t, s.ChangePassword("ghost", "demo123", "longenough"), domain.ErrNotFound)

	require.NoError(t, s.ChangePassword("demo", "demo123", "longenough"))
	_, err := s.Authenticate("demo", "demo123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = s.Authenticate("demo", "longenough")
	assert.NoError(t, err)
}

func TestRefreshStore_RotateAndRevoke(t *testing.T) {
	s := NewRefreshStore(time.Hour)

	first := s.Issue("manager")
	owner, second, err := s.Rotate(first)
	require.NoError(t, err)
	assert.Equal(t, "manager", owner)
	assert.NotEqual(t, first, second)

	_, _, err = s.Rotate(first)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	s.Issue("manager")
	s.Issue("analyst")
	assert.Equal(t, 2, s.RevokeUser("manager"))
	_, _, err = s.Rotate(second)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshStore_Expiry(t *testing.T) {
	s := NewRefreshStore(time.Minute)
	token := s.Issue("user")
	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	_, _, err := s.Rotate(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
