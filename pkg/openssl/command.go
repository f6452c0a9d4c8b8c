// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package openssl builds and executes toolchain invocations. Commands are
// ordered argv vectors with per-argument secrecy tags; no shell is ever
// involved. Execution happens inside a Sandbox: a per-request private
// directory with a stripped environment, a wall-clock budget and output caps.
package openssl

import (
	"strings"

	"github.com/MoldoAndr/vitruvian-cipher/pkg/validation"
)

// BinaryOpenSSL and BinaryXXD are the only binaries a Command may name.
const (
	BinaryOpenSSL = "openssl"
	BinaryXXD     = "xxd"
)

type argument struct {
	value  string
	secret bool
}

// Command is one toolchain invocation under construction. Arguments keep
// their secrecy tag with them, so reordering or inserting arguments can never
// desynchronize redaction.
type Command struct {
	binary string
	args   []argument
	stdin  []byte
}

// New starts a command for the given binary.
func New(binary string) *Command {
	return &Command{binary: binary}
}

// OpenSSL starts an openssl invocation.
func OpenSSL() *Command { return New(BinaryOpenSSL) }

// XXD starts an xxd invocation.
func XXD() *Command { return New(BinaryXXD) }

// Arg appends a public argument.
func (c *Command) Arg(v string) *Command {
	c.args = append(c.args, argument{value: v})
	return c
}

// SecretArg appends an argument whose value must never appear in any
// externally observable rendering.
func (c *Command) SecretArg(v string) *Command {
	c.args = append(c.args, argument{value: v, secret: true})
	return c
}

// WithStdin sets the payload written to the process on stdin. Payload data
// bypasses the argument list entirely, so it needs no secrecy tag.
func (c *Command) WithStdin(data []byte) *Command {
	c.stdin = data
	return c
}

// Binary returns the binary name.
func (c *Command) Binary() string { return c.binary }

// Args returns the argument values in order, for process execution.
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	for i, a := range c.args {
		out[i] = a.value
	}
	return out
}

// Stdin returns the stdin payload, nil when none was set.
func (c *Command) Stdin() []byte { return c.stdin }

// String renders the full command text including secret values. Only the
// show-secrets debugging path may surface this rendering.
func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(c.binary)
	for _, a := range c.args {
		b.WriteByte(' ')
		b.WriteString(a.value)
	}
	return b.String()
}

// Redacted renders the command with every secret argument masked. This is the
// only rendering that may reach logs, errors or responses.
func (c *Command) Redacted() string {
	var b strings.Builder
	b.WriteString(c.binary)
	for _, a := range c.args {
		b.WriteByte(' ')
		if a.secret {
			b.WriteString(validation.RedactSecret(a.value))
		} else {
			b.WriteString(a.value)
		}
	}
	return b.String()
}

// WithProviders appends the post-quantum provider activation arguments.
// Call it immediately after the subcommand argument so the provider flags
// precede every operation argument.
func (c *Command) WithProviders() *Command {
	return c.Arg("-provider").Arg("oqsprovider").Arg("-provider").Arg("default")
}
