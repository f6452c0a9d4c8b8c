// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package openssl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSandbox(t *testing.T, cfg Config) *Sandbox {
	t.Helper()
	sb, err := NewSandbox(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { sb.Close() })
	return sb
}

func TestSandboxDirectoryLifecycle(t *testing.T) {
	sb, err := NewSandbox(DefaultConfig())
	require.NoError(t, err)

	info, err := os.Stat(sb.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}

	require.NoError(t, sb.WriteFile("data.bin", []byte("hello")))
	data, err := sb.ReadFile("data.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	require.NoError(t, sb.Close())
	_, err = os.Stat(sb.Dir())
	assert.True(t, os.IsNotExist(err))

	// Close is idempotent.
	assert.NoError(t, sb.Close())
}

func TestSandboxPathConfinement(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	for _, name := range []string{"", "../escape", "a/b", "/etc/passwd", ".hidden", ".."} {
		_, err := sb.Path(name)
		assert.Error(t, err, "name %q should be rejected", name)
	}

	path, err := sb.Path("sig.bin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, sb.Dir()))
}

func TestRunCapturesStdout(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	result, err := sb.Run(context.Background(), New("echo").Arg("-n").Arg("hello"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello", string(result.Stdout))
	assert.Empty(t, result.Stderr)
}

func TestRunStdinPayload(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	result, err := sb.Run(context.Background(), New("cat").WithStdin([]byte("round trip")))
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "round trip", string(result.Stdout))
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	result, err := sb.Run(context.Background(), New("false"))
	require.NoError(t, err)
	assert.NotEqual(t, 0, result.ExitCode)
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	sb := newTestSandbox(t, cfg)

	start := time.Now()
	_, err := sb.Run(context.Background(), New("sleep").Arg("5"))
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, cfg.Timeout, timeoutErr.Timeout)
	// The child did not run to completion.
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRunOutputCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputCap = 16
	sb := newTestSandbox(t, cfg)

	_, err := sb.Run(context.Background(),
		New("echo").Arg(strings.Repeat("x", 64)))

	var tooLarge *OutputTooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, 16, tooLarge.Limit)
}

func TestRunWorkingDirectoryIsSandbox(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	result, err := sb.Run(context.Background(), New("pwd"))
	require.NoError(t, err)

	// MkdirTemp may sit behind a symlink (macOS /tmp), so resolve both
	// sides before comparing.
	got := strings.TrimSpace(string(result.Stdout))
	if resolved, err := filepath.EvalSymlinks(got); err == nil {
		got = resolved
	}
	want := sb.Dir()
	if resolved, err := filepath.EvalSymlinks(want); err == nil {
		want = resolved
	}
	assert.Equal(t, want, got)
}

func TestRunEnvironmentStripped(t *testing.T) {
	t.Setenv("VITRUVIAN_TEST_LEAK", "leaked")
	sb := newTestSandbox(t, DefaultConfig())

	result, err := sb.Run(context.Background(), New("env"))
	require.NoError(t, err)

	out := string(result.Stdout)
	assert.False(t, strings.Contains(out, "VITRUVIAN_TEST_LEAK"))
	assert.True(t, strings.Contains(out, "HOME="+sb.Dir()))
}

func TestRunResultCommandIsRedactedByDefault(t *testing.T) {
	sb := newTestSandbox(t, DefaultConfig())

	secret := "ffffffffffffffffffffffffffffffff"
	result, err := sb.Run(context.Background(),
		New("echo").Arg("-n").Arg("x").SecretArg(secret))
	require.NoError(t, err)
	assert.False(t, strings.Contains(result.Command, secret))
	assert.False(t, strings.Contains(result.Redacted, secret))
}

func TestRunShowSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowSecrets = true
	sb := newTestSandbox(t, cfg)

	secret := "ffffffffffffffffffffffffffffffff"
	result, err := sb.Run(context.Background(),
		New("echo").Arg("-n").Arg("x").SecretArg(secret))
	require.NoError(t, err)
	assert.True(t, strings.Contains(result.Command, secret))
	// The dedicated redacted rendering stays masked regardless.
	assert.False(t, strings.Contains(result.Redacted, secret))
}
