package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/config"
	"github.com/shashiranjanraj/foodexplorer/pkg/logger"
	"github.com/shashiranjanraj/foodexplorer/pkg/reqid"
)

func TestWithCtxTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, nil))
	defer func() { logger.L = prev }()

	ctx := reqid.WithValue(context.Background(), "req-1")
	logger.WithCtx(ctx).Info("signed in")

	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), `msg="signed in"`)
}

func TestInjectedLoggerWins(t *testing.T) {
	var buf bytes.Buffer
	injected := slog.New(slog.NewTextHandler(&buf, nil)).With("cmd", "checkout")

	ctx := logger.InjectLogger(reqid.WithValue(context.Background(), "x"), injected)
	logger.WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "cmd=checkout")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := logger.NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With("component", "kv")

	log.Info("only text")
	log.Error("both")

	assert.Contains(t, a.String(), "only text")
	assert.Contains(t, a.String(), "both")
	assert.NotContains(t, b.String(), "only text")
	assert.Contains(t, b.String(), `"component":"kv"`)
}

func TestSetupLevelFollowsAppEnv(t *testing.T) {
	chdir(t, t.TempDir())
	prev := logger.L
	t.Cleanup(func() {
		logger.L = prev
		slog.SetDefault(prev)
		config.Reset()
	})

	levels := map[string][2]bool{ // env: {debug enabled, info enabled}
		"debug":      {true, true},
		"production": {false, true},
		"local":      {false, false},
	}
	for env, want := range levels {
		config.Reset()
		require.NoError(t, config.Load())
		config.Set("APP_ENV", env)

		closer, err := logger.Setup()
		require.NoError(t, err)
		assert.Equal(t, want[0], logger.L.Enabled(context.Background(), slog.LevelDebug), env)
		assert.Equal(t, want[1], logger.L.Enabled(context.Background(), slog.LevelInfo), env)
		require.NoError(t, closer.Close())
	}
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
