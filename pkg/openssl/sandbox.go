// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package openssl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/logging"
)

// DefaultEnvPassthrough lists the host environment variables forwarded to
// child processes when present. They locate the provider modules and shared
// libraries; everything else is stripped.
var DefaultEnvPassthrough = []string{
	"OPENSSL_MODULES",
	"LD_LIBRARY_PATH",
	"OPENSSL_CONF",
}

// Config carries the per-sandbox execution policy.
type Config struct {
	// Timeout is the wall-clock budget for each invocation.
	Timeout time.Duration
	// OutputCap bounds each of stdout and stderr in bytes.
	OutputCap int
	// ShowSecrets switches ExecutionResult.Command to the unredacted
	// rendering. Debugging only; defaults to off.
	ShowSecrets bool
	// EnvPassthrough overrides DefaultEnvPassthrough when non-nil.
	EnvPassthrough []string
	// Logger receives per-invocation debug records. Optional.
	Logger *logging.Logger
}

// DefaultConfig returns the stock execution policy.
func DefaultConfig() Config {
	return Config{
		Timeout:   catalog.ExecutionTimeout,
		OutputCap: catalog.MaxOutputSize,
	}
}

// Sandbox is a per-request private working directory for toolchain
// invocations. All intermediate files live inside it, and the whole directory
// is removed on Close. A Sandbox is owned by a single request and is not safe
// for concurrent use.
type Sandbox struct {
	dir       string
	cfg       Config
	logger    *logging.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewSandbox provisions a fresh private directory. The caller must arrange
// Close, normally with defer.
func NewSandbox(cfg Config) (*Sandbox, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = catalog.ExecutionTimeout
	}
	if cfg.OutputCap <= 0 {
		cfg.OutputCap = catalog.MaxOutputSize
	}

	dir, err := os.MkdirTemp("", "vitruvian-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSandbox, err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrSandbox, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Sandbox{dir: dir, cfg: cfg, logger: logger}, nil
}

// Dir returns the sandbox directory path.
func (s *Sandbox) Dir() string { return s.dir }

// Timeout returns the configured per-invocation budget.
func (s *Sandbox) Timeout() time.Duration { return s.cfg.Timeout }

// Path resolves a file name inside the sandbox. Names must be bare file
// names; anything resembling a path escapes confinement and is rejected.
func (s *Sandbox) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid sandbox file name", ErrSandbox)
	}
	return filepath.Join(s.dir, name), nil
}

// WriteFile writes a file inside the sandbox with owner-only permissions.
func (s *Sandbox) WriteFile(name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSandbox, err)
	}
	return nil
}

// ReadFile reads a file from inside the sandbox.
func (s *Sandbox) ReadFile(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSandbox, err)
	}
	return data, nil
}

// Close removes the sandbox directory and everything in it. Idempotent.
func (s *Sandbox) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = os.RemoveAll(s.dir)
	})
	return s.closeErr
}

// ExecutionResult is the outcome of one completed invocation. A nonzero exit
// code is not an error at this layer; protocols interpret it.
type ExecutionResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	// Command is the rendering callers may surface: redacted unless the
	// sandbox was configured with ShowSecrets.
	Command string
	// Redacted always carries the masked rendering.
	Redacted string
}

// cappedBuffer keeps draining past its limit without growing, so a runaway
// child never stalls on a full pipe, while total still records how much the
// child actually wrote.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
	total int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.total += len(p)
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *cappedBuffer) overflowed() bool { return b.total > b.limit }

// Run executes one command inside the sandbox. The child runs with the
// sandbox directory as working directory and HOME, a stripped environment,
// and the configured wall-clock budget. Stdout and stderr are drained
// concurrently into capped buffers.
func (s *Sandbox) Run(ctx context.Context, cmd *Command) (*ExecutionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	proc := exec.CommandContext(ctx, cmd.Binary(), cmd.Args()...)
	proc.Dir = s.dir
	proc.Env = s.environment()
	proc.WaitDelay = 5 * time.Second

	stdout := &cappedBuffer{limit: s.cfg.OutputCap}
	stderr := &cappedBuffer{limit: s.cfg.OutputCap}
	proc.Stdout = stdout
	proc.Stderr = stderr

	var g errgroup.Group
	if payload := cmd.Stdin(); payload != nil {
		pipe, err := proc.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSandbox, err)
		}
		g.Go(func() error {
			defer pipe.Close()
			_, err := pipe.Write(payload)
			return err
		})
	}

	s.logger.Debug("executing", "command", cmd.Redacted())

	start := time.Now()
	runErr := proc.Run()
	writeErr := g.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{Timeout: s.cfg.Timeout}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if stdout.overflowed() || stderr.overflowed() {
		return nil, &OutputTooLargeError{Limit: s.cfg.OutputCap}
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, fmt.Errorf("%w: %v", ErrSandbox, runErr)
		}
	}
	// A broken pipe on stdin is expected when the child exits early; any
	// other write failure surfaces through the exit code path above.
	_ = writeErr

	redacted := cmd.Redacted()
	rendered := redacted
	if s.cfg.ShowSecrets {
		rendered = cmd.String()
	}

	s.logger.Debug("executed",
		"command", redacted,
		"exit_code", exitCode,
		"duration", time.Since(start).String())

	return &ExecutionResult{
		Stdout:   stdout.buf.Bytes(),
		Stderr:   stderr.buf.Bytes(),
		ExitCode: exitCode,
		Command:  rendered,
		Redacted: redacted,
	}, nil
}

// environment builds the stripped child environment: PATH for binary lookup,
// HOME pointed inside the sandbox, plus the passthrough variables when set on
// the host.
func (s *Sandbox) environment() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + s.dir,
	}
	passthrough := s.cfg.EnvPassthrough
	if passthrough == nil {
		passthrough = DefaultEnvPassthrough
	}
	for _, name := range passthrough {
		if v := os.Getenv(name); v != "" {
			env = append(env, name+"="+v)
		}
	}
	return env
}
