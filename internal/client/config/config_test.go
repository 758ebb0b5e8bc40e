package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"spellctl"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.Empty(t, c.AccessToken)
}

func TestParseFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	y := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(y, []byte("server_endpoint_addr: spells:9000\ntimeout: 3s\n"), 0o600))
	j := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(j, []byte(`{"access_token":"abc","timeout":1000000000}`), 0o600))

	c := &Config{}
	c.LoadDefaults()
	require.NoError(t, parseFile(c, y))
	require.NoError(t, parseFile(c, j))

	want := &Config{ServerEndpointAddr: "spells:9000", AccessToken: "abc", Timeout: time.Second}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFile_Errors(t *testing.T) {
	c := &Config{}
	assert.NoError(t, parseFile(c, ""))
	assert.Error(t, parseFile(c, filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"timeout":"soon"}`), 0o600))
	assert.Error(t, parseFile(c, bad))
}

func TestParseFlags(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	require.NoError(t, parseFlags(c, []string{"-a", "host:1", "-c", "x.yaml", "-t=tok", "-T", "2s"}))
	assert.Equal(t, "host:1", c.ServerEndpointAddr)
	assert.Equal(t, "tok", c.AccessToken)
	assert.Equal(t, 2*time.Second, c.Timeout)

	assert.Error(t, parseFlags(c, []string{"-T", "never"}))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_endpoint_addr: file:1\naccess_token: file-token\ntimeout: 4s\n"), 0o600))

	withArgs(t, "-c", path, "-a", "flag:3", "stats")
	t.Setenv("SPELLCTL_TOKEN", "env-token")
	t.Setenv("SPELLCTL_ADDR", "env:2")

	cfg, err := LoadConfig([]string{"-c", path, "-a", "flag:3"})
	require.NoError(t, err)

	want := &Config{ServerEndpointAddr: "flag:3", AccessToken: "env-token", Timeout: 4 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_BadEnv(t *testing.T) {
	withArgs(t)
	t.Setenv("SPELLCTL_TIMEOUT", "whenever")

	_, err := LoadConfig(nil)
	assert.Error(t, err)
}
