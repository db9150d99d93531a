package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL_SECONDS", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg := New()
	require.Equal(t, ":5000", cfg.HTTPAddr)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 60*time.Second, cfg.DedupTTL)
	require.Equal(t, "8.8.8.8:53", cfg.ProbeDNSAddr)
	require.False(t, cfg.TelegramConfigured())
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "8443")
	t.Setenv("SESSION_TTL_SECONDS", "90")
	t.Setenv("DEDUP_TTL_SECONDS", "bad")
	t.Setenv("PROBE_ENABLED", "false")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, ,10.0.0.2")
	t.Setenv("TELEGRAM_API_URL", "http://localhost:9999/")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg := New()
	require.Equal(t, ":8443", cfg.HTTPAddr)
	require.Equal(t, 90*time.Second, cfg.SessionTTL)
	require.Equal(t, 60*time.Second, cfg.DedupTTL)
	require.False(t, cfg.ProbeEnabled)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
	require.Equal(t, "http://localhost:9999", cfg.TelegramAPIURL)
	require.True(t, cfg.TelegramConfigured())
}

func TestTLSFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{CertDir: dir}

	_, _, ok := cfg.TLSFiles()
	require.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "cert.pem"), []byte("c"), 0o600))
	_, _, ok = cfg.TLSFiles()
	require.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "key.pem"), []byte("k"), 0o600))
	certFile, keyFile, ok := cfg.TLSFiles()
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "cert.pem"), certFile)
	require.Equal(t, filepath.Join(dir, "key.pem"), keyFile)
}
