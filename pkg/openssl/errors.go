// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package openssl

import (
	"errors"
	"fmt"
	"time"
)

// ErrSandbox wraps failures to provision or maintain the sandbox itself,
// such as temp directory creation.
var ErrSandbox = errors.New("sandbox resource failure")

// TimeoutError reports an invocation that exceeded its wall-clock budget.
// The child process has been killed before this error is returned.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution exceeded %s timeout", e.Timeout)
}

// OutputTooLargeError reports a child process that produced more output than
// the configured cap on either stream.
type OutputTooLargeError struct {
	Limit int
}

func (e *OutputTooLargeError) Error() string {
	return fmt.Sprintf("output exceeded %d byte limit", e.Limit)
}

// ExecError reports a toolchain invocation that exited nonzero where success
// was required. Command carries the redacted rendering only.
type ExecError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
}
