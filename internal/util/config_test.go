package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTokenConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REFRESH_PEPPER", "test-pepper-16-bytes")

	_, err := NewTokenConfig()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewTokenConfig_WeakSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("REFRESH_PEPPER", "test-pepper-16-bytes")

	_, err := NewTokenConfig()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewTokenConfig_MissingPepper(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_PEPPER", "")

	_, err := NewTokenConfig()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewTokenConfig_WeakPepper(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_PEPPER", "short")

	_, err := NewTokenConfig()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestNewTokenConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_PEPPER", "test-pepper-16-bytes")
	t.Setenv("ACCESS_TOKEN_TTL", "")
	t.Setenv("REFRESH_TOKEN_TTL", "")

	cfg, err := NewTokenConfig()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 14*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "test-pepper-16-bytes", cfg.Pepper)
}

func TestNewTokenConfig_CustomTTLs(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("REFRESH_PEPPER", "test-pepper-16-bytes")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "168h")

	cfg, err := NewTokenConfig()
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, 168*time.Hour, cfg.RefreshTTL)
}
