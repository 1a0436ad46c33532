package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbo-ncu/internal/app"
	"turbo-ncu/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	viper.Reset()
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"check", "clear-cache"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	viper.Reset()
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestCheckCommandFlags(t *testing.T) {
	viper.Reset()
	flags := []string{
		"upgrade", "target", "filter", "reject", "dep",
		"cache-file", "cache-ttl", "concurrency", "registry",
		"pre", "timeout", "retries", "json", "json-all",
		"error-level", "package-file", "configFile", "metrics-file",
	}
	for _, cmd := range []*cobra.Command{newRootCommand(), newCheckCommand()} {
		for _, name := range flags {
			assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s on %s", name, cmd.Name())
		}
	}
	cmd := newCheckCommand()
	assert.Equal(t, "u", cmd.Flags().Lookup("upgrade").Shorthand)
	assert.Equal(t, "t", cmd.Flags().Lookup("target").Shorthand)
	assert.Equal(t, "f", cmd.Flags().Lookup("filter").Shorthand)
	assert.Equal(t, "x", cmd.Flags().Lookup("reject").Shorthand)
	assert.Equal(t, "30000", cmd.Flags().Lookup("timeout").DefValue)
	assert.Equal(t, "600", cmd.Flags().Lookup("cache-ttl").DefValue)
}

// ---------- Flag helper tests ----------

func TestResolveString(t *testing.T) {
	viper.Reset()
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStrings(t *testing.T) {
	viper.Reset()
	got := resolveStrings(nil, []string{"a", "b"}, "test_key", "test-flag")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Empty(t, resolveStrings(nil, nil, "test_key", "test-flag"))
}

func TestResolveBoolAndInt(t *testing.T) {
	assert.True(t, resolveBool(nil, true, "test_key", "test-flag"))
	assert.False(t, resolveBool(nil, false, "test_key", "test-flag"))
	assert.Equal(t, 42, resolveInt(nil, 42, "test_key", "test-flag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")

	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

func TestApplyProjectConfigRespectsExplicitFlags(t *testing.T) {
	viper.Reset()
	cmd := newCheckCommand()
	require.NoError(t, cmd.Flags().Set("target", "patch"))

	target := "minor"
	concurrency := 8
	pre := true
	applyProjectConfig(cmd, types.ProjectConfig{
		Target:      &target,
		Concurrency: &concurrency,
		Pre:         &pre,
		Dep:         types.StringList{"prod", "dev"},
	})

	resolved := resolveCheckOptions(cmd, checkOptions{Target: "patch", Concurrency: 24})
	assert.Equal(t, "patch", resolved.Target)
	assert.Equal(t, 8, resolved.Concurrency)
	assert.True(t, resolved.Pre)
	assert.Equal(t, []string{"prod", "dev"}, resolved.Dep)
}

func TestResolutionOptions(t *testing.T) {
	got, err := resolutionOptions(checkOptions{
		Registry:    "https://npm.internal",
		Target:      "minor",
		CacheTTL:    60,
		Concurrency: 4,
		TimeoutMs:   1500,
		Retries:     2,
		Pre:         true,
		CacheFile:   "/tmp/cache.json",
	})
	require.NoError(t, err)
	want := types.ResolutionOptions{
		RegistryURL:       "https://npm.internal",
		Target:            types.TargetMinor,
		Concurrency:       4,
		Timeout:           1500 * time.Millisecond,
		CacheFile:         "/tmp/cache.json",
		CacheTTL:          types.Ptr(time.Minute),
		IncludePrerelease: true,
		Retries:           types.Ptr[uint](2),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}

	_, err = resolutionOptions(checkOptions{Retries: -1})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// ---------- Command run tests ----------

func setupCommandRun(t *testing.T) (string, string) {
	t.Helper()
	viper.Reset()
	home := t.TempDir()
	original := newAppService
	newAppService = func() app.Service {
		svc := app.NewService()
		svc.HomeDir = func() (string, error) { return home, nil }
		return svc
	}
	t.Cleanup(func() { newAppService = original })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alpha":
			_, _ = w.Write([]byte(`{"name":"alpha","versions":{"1.0.0":{},"2.0.0":{}}}`))
		case "/bravo":
			_, _ = w.Write([]byte(`{"name":"bravo","versions":{"3.1.0":{}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dependencies":{"alpha":"^1.0.0","bravo":"^3.1.0"}}`), 0o644))
	return server.URL, path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRunCheckJSON(t *testing.T) {
	registry, path := setupCommandRun(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	out, err := runRoot(t, "--registry", registry, "--package-file", path, "--cache-file", cacheFile, "--json", "--retries", "0")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	if diff := cmp.Diff(map[string]string{"alpha": "^2.0.0"}, got); diff != "" {
		t.Fatalf("unexpected json (-want +got):\n%s", diff)
	}
}

func TestRunCheckTable(t *testing.T) {
	registry, path := setupCommandRun(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	metricsFile := filepath.Join(t.TempDir(), "turbo-ncu.prom")

	out, err := runRoot(t, "check", "--registry", registry, "--package-file", path, "--cache-file", cacheFile, "--metrics-file", metricsFile)
	require.NoError(t, err)
	assert.Contains(t, out, " alpha  ^1.0.0  →  ^2.0.0\n")
	assert.Contains(t, out, "1 update found (2 fetched, 0 from cache)")
	assert.Contains(t, out, "Run turbo-ncu --upgrade to update your package.json")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `turbo_ncu_cache_lookups_total{result="miss"} 2`)
}

func TestRunCheckErrorLevel(t *testing.T) {
	registry, path := setupCommandRun(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")

	_, err := runRoot(t, "--registry", registry, "--package-file", path, "--cache-file", cacheFile, "--error-level", "2")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Equal(t, 1, exitCodeForError(err))
}

func TestRunCheckInvalidTarget(t *testing.T) {
	registry, path := setupCommandRun(t)
	_, err := runRoot(t, "--registry", registry, "--package-file", path, "--target", "greatest")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestRunClearCache(t *testing.T) {
	setupCommandRun(t)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(cacheFile, []byte(`{"entries":{}}`), 0o644))

	out, err := runRoot(t, "clear-cache", "--cache-file", cacheFile)
	require.NoError(t, err)
	assert.Equal(t, "Cache cleared: "+cacheFile+"\n", out)
	_, err = os.Stat(cacheFile)
	assert.True(t, os.IsNotExist(err))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "updates available",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("updates available"),
			expected: 1,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("file missing"),
			expected: 3,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
