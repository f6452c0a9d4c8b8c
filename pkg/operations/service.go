// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package operations sequences toolchain invocations into the cryptographic
// protocols the service exposes. Every operation validates its parameters at
// the untrusted boundary, runs inside a fresh sandbox, and returns a typed
// result wrapped in the response envelope.
package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/catalog"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/correlation"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/logging"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/metrics"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/openssl"
	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// Runner executes one built command inside a sandbox. The seam exists so
// protocol sequencing can be exercised without the real toolchain.
type Runner interface {
	Run(ctx context.Context, sb *openssl.Sandbox, cmd *openssl.Command) (*openssl.ExecutionResult, error)
}

type sandboxRunner struct{}

func (sandboxRunner) Run(ctx context.Context, sb *openssl.Sandbox, cmd *openssl.Command) (*openssl.ExecutionResult, error) {
	start := time.Now()
	result, err := sb.Run(ctx, cmd)
	status := metrics.StatusSuccess
	if err != nil || (result != nil && result.ExitCode != 0) {
		status = metrics.StatusError
	}
	metrics.RecordInvocation(cmd.Binary(), status, time.Since(start).Seconds())
	return result, err
}

// Response is the envelope returned for every successful operation.
type Response struct {
	Success   bool        `json:"success"`
	Operation string      `json:"operation"`
	Result    any         `json:"result"`
	Command   CommandInfo `json:"command"`
	Metadata  Metadata    `json:"metadata"`
}

// CommandInfo describes the invocations behind a response. Executed carries
// the redacted rendering unless the sandbox was configured to show secrets.
type CommandInfo struct {
	Executed       string `json:"executed"`
	Redacted       bool   `json:"redacted"`
	OpenSSLVersion string `json:"openssl_version"`
}

// Metadata carries per-request bookkeeping.
type Metadata struct {
	ExecutionTimeMS float64 `json:"execution_time_ms"`
	RequestID       string  `json:"request_id"`
	Timestamp       string  `json:"timestamp"`
}

// Service dispatches operations. It is safe for concurrent use; each request
// gets its own sandbox and the shared catalogue is immutable.
type Service struct {
	catalog       *catalog.Config
	sandboxCfg    openssl.Config
	keygenTimeout time.Duration
	logger        *logging.Logger
	runner        Runner
	limiter       *semaphore.Weighted

	versionOnce sync.Once
	version     string
}

// Option configures a Service.
type Option func(*Service)

// WithRunner replaces the sandbox-backed runner.
func WithRunner(r Runner) Option {
	return func(s *Service) { s.runner = r }
}

// WithLogger sets the service logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithSandboxConfig sets the per-request sandbox policy.
func WithSandboxConfig(cfg openssl.Config) Option {
	return func(s *Service) { s.sandboxCfg = cfg }
}

// WithKeygenTimeout sets the budget for key generation operations.
func WithKeygenTimeout(d time.Duration) Option {
	return func(s *Service) { s.keygenTimeout = d }
}

// WithMaxConcurrent bounds the number of in-flight subprocess requests.
// Zero means unlimited.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limiter = semaphore.NewWeighted(int64(n))
		}
	}
}

// New creates a Service over the given catalogue.
func New(cat *catalog.Config, opts ...Option) *Service {
	s := &Service{
		catalog:       cat,
		sandboxCfg:    openssl.DefaultConfig(),
		keygenTimeout: catalog.KeygenTimeout,
		logger:        logging.DefaultLogger(),
		runner:        sandboxRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the allowlist catalogue the service dispatches against.
func (s *Service) Catalog() *catalog.Config { return s.catalog }

// keygenOperations get the longer execution budget.
var keygenOperations = map[string]bool{
	"rsa_keygen":     true,
	"pqc_sig_keygen": true,
}

// Execute validates and runs one operation. The params map is the raw JSON
// object from the request; conversion to typed parameters happens here.
func (s *Service) Execute(ctx context.Context, operation string, params map[string]any) (*Response, error) {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer s.limiter.Release(1)
	}

	start := time.Now()
	requestID := correlation.FromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	cfg := s.sandboxCfg
	if keygenOperations[operation] {
		cfg.Timeout = s.keygenTimeout
	}
	sb, err := openssl.NewSandbox(cfg)
	if err != nil {
		metrics.RecordError(operation, "sandbox_failure")
		return nil, err
	}
	metrics.IncrementSandboxes()
	defer func() {
		sb.Close()
		metrics.DecrementSandboxes()
	}()

	result, execs, err := s.dispatch(ctx, sb, operation, params)
	if err != nil {
		metrics.RecordOperation(operation, metrics.StatusError, time.Since(start).Seconds())
		metrics.RecordError(operation, errorType(err))
		s.logger.Warn("operation failed",
			"operation", operation,
			"request_id", requestID,
			"error", err.Error())
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.RecordOperation(operation, metrics.StatusSuccess, elapsed.Seconds())
	s.logger.Info("operation completed",
		"operation", operation,
		"request_id", requestID,
		"invocations", len(execs),
		"duration", elapsed.String())

	return &Response{
		Success:   true,
		Operation: operation,
		Result:    result,
		Command: CommandInfo{
			Executed:       joinCommands(execs),
			Redacted:       !cfg.ShowSecrets,
			OpenSSLVersion: s.toolVersion(ctx, sb),
		},
		Metadata: Metadata{
			ExecutionTimeMS: float64(elapsed.Microseconds()) / 1000.0,
			RequestID:       requestID,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (s *Service) dispatch(ctx context.Context, sb *openssl.Sandbox, operation string, params map[string]any) (any, []*openssl.ExecutionResult, error) {
	switch operation {
	case "base64_encode":
		return s.base64Encode(ctx, sb, params)
	case "base64_decode":
		return s.base64Decode(ctx, sb, params)
	case "hex_encode":
		return s.hexEncode(ctx, sb, params)
	case "hex_decode":
		return s.hexDecode(ctx, sb, params)
	case "random_bytes":
		return s.randomBytes(ctx, sb, params)
	case "random_hex":
		return s.randomHex(ctx, sb, params)
	case "random_base64":
		return s.randomBase64(ctx, sb, params)
	case "hash":
		return s.hash(ctx, sb, params)
	case "hmac":
		return s.hmac(ctx, sb, params)
	case "aes_keygen":
		return s.aesKeygen(ctx, sb, params)
	case "aes_encrypt":
		return s.aesEncrypt(ctx, sb, params)
	case "aes_decrypt":
		return s.aesDecrypt(ctx, sb, params)
	case "rsa_keygen":
		return s.rsaKeygen(ctx, sb, params)
	case "rsa_pubkey":
		return s.rsaPubkey(ctx, sb, params)
	case "rsa_sign":
		return s.rsaSign(ctx, sb, params)
	case "rsa_verify":
		return s.rsaVerify(ctx, sb, params)
	case "rsa_encrypt":
		return s.rsaEncrypt(ctx, sb, params)
	case "rsa_decrypt":
		return s.rsaDecrypt(ctx, sb, params)
	case "pqc_sig_keygen":
		return s.pqcKeygen(ctx, sb, params)
	case "pqc_sig_sign":
		return s.pqcSign(ctx, sb, params)
	case "pqc_sig_verify":
		return s.pqcVerify(ctx, sb, params)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, operation)
	}
}

// runOK executes a command and requires a zero exit code.
func (s *Service) runOK(ctx context.Context, sb *openssl.Sandbox, cmd *openssl.Command) (*openssl.ExecutionResult, error) {
	result, err := s.runner.Run(ctx, sb, cmd)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, &openssl.ExecError{
			Command:  result.Redacted,
			ExitCode: result.ExitCode,
			Stderr:   string(result.Stderr),
		}
	}
	return result, nil
}

// toolVersion resolves the toolchain version banner once and caches it.
func (s *Service) toolVersion(ctx context.Context, sb *openssl.Sandbox) string {
	s.versionOnce.Do(func() {
		result, err := s.runner.Run(ctx, sb, openssl.OpenSSL().Arg("version"))
		if err != nil || result.ExitCode != 0 {
			s.version = "unknown"
			return
		}
		s.version = strings.TrimSpace(string(result.Stdout))
	})
	return s.version
}

// errorType derives a stable metric label from an operation error.
func errorType(err error) string {
	var verr *validation.Error
	var timeoutErr *openssl.TimeoutError
	var overflowErr *openssl.OutputTooLargeError

	switch {
	case errors.As(err, &verr):
		return string(verr.Kind)
	case errors.Is(err, ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, ErrUnsupportedOperation):
		return "unsupported_operation"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &overflowErr):
		return "output_too_large"
	default:
		return "execution_failed"
	}
}

func joinCommands(execs []*openssl.ExecutionResult) string {
	parts := make([]string, len(execs))
	for i, e := range execs {
		parts[i] = e.Command
	}
	return strings.Join(parts, " && ")
}
