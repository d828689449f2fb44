package auth

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/pairtalk/pairtalk/internal/auth/jwt"
	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWT: config.JWTConfig{SecretKey: testSecret, Duration: time.Hour},
	}
}

func TestNewValidatorRejectsBadConfig(t *testing.T) {
	_, err := NewValidator(config.AuthConfig{})
	assert.Error(t, err)
}

func TestValidateRoundTrip(t *testing.T) {
	v, err := NewValidator(testAuthConfig())
	require.NoError(t, err)

	svc, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	tok, err := svc.GenerateToken("alice")
	require.NoError(t, err)

	identity, err := v.Validate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity)
}

func TestValidateFailures(t *testing.T) {
	v, err := NewValidator(testAuthConfig())
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = v.Validate(context.Background(), "garbage")
	assert.Error(t, err)
}

func TestCredentialFromQuery(t *testing.T) {
	q := url.Values{}
	_, err := CredentialFromQuery(q)
	assert.ErrorIs(t, err, ErrMissingCredential)

	q.Set("token", "abc")
	cred, err := CredentialFromQuery(q)
	assert.NoError(t, err)
	assert.Equal(t, "abc", cred)
}
