package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/config"
)

func fresh(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	config.Reset()
	t.Cleanup(config.Reset)
	return dir
}

func TestDefaults(t *testing.T) {
	fresh(t)
	require.NoError(t, config.Load())

	assert.Equal(t, "http://localhost:3333", config.APIURL())
	assert.Equal(t, "file", config.KVDriver())
	assert.Equal(t, "@foodexplorer:", config.KVPrefix())
	assert.Equal(t, 1050, config.ViewBreakpoint())
	assert.Equal(t, 3*time.Second, config.AcceptRedirectDelay())
	assert.Equal(t, 30*time.Second, config.HTTPTimeout())
	assert.Equal(t, "sqlite", config.DatabaseDriver())
}

func TestSourcesOverrideInOrder(t *testing.T) {
	dir := fresh(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "app.json"),
		[]byte(`{"api_url": "http://json.test/", "view_breakpoint": 900, "kv_driver": "redis"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("API_URL=http://dotenv.test\nKV_PREFIX=\nACCEPT_REDIRECT_DELAY=1s\n"), 0o644))
	t.Setenv("FOODEXPLORER_KV_DRIVER", "sql")

	require.NoError(t, config.Load())

	assert.Equal(t, "http://dotenv.test", config.APIURL())
	assert.Equal(t, 900, config.ViewBreakpoint())
	assert.Equal(t, "sql", config.KVDriver())
	assert.Equal(t, "", config.KVPrefix(), "an explicit empty prefix is kept")
	assert.Equal(t, time.Second, config.AcceptRedirectDelay())
}

func TestInvalidValuesFallBack(t *testing.T) {
	fresh(t)
	t.Setenv("FOODEXPLORER_KV_DRIVER", "etcd")
	t.Setenv("FOODEXPLORER_VIEW_BREAKPOINT", "wide")
	t.Setenv("FOODEXPLORER_HTTP_TIMEOUT", "-5s")

	assert.Equal(t, "file", config.KVDriver())
	assert.Equal(t, 1050, config.ViewBreakpoint())
	assert.Equal(t, 30*time.Second, config.HTTPTimeout())
}

func TestBrokenJSONIsAnError(t *testing.T) {
	dir := fresh(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "app.json"), []byte(`{`), 0o644))

	assert.Error(t, config.Load())
}

func TestSetAndGet(t *testing.T) {
	fresh(t)
	require.NoError(t, config.Load())
	config.Set("custom_key", "v")
	assert.Equal(t, "v", config.Get("CUSTOM_KEY", ""))
	assert.Equal(t, "fallback", config.Get("MISSING", "fallback"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
