// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

// Package rest exposes the cryptographic execution service over HTTP.
//
// Endpoints:
//
//	POST /execute        - run one operation from the catalogue
//	GET  /operations     - list supported operations and their parameters
//	GET  /ciphers        - list supported ciphers, hashes and key sizes
//	GET  /health         - basic health summary with toolchain version
//	GET  /health/live    - Kubernetes liveness probe
//	GET  /health/ready   - Kubernetes readiness probe
//	GET  /health/startup - Kubernetes startup probe
//	GET  /pqc/health     - post-quantum provider status
//	GET  /metrics        - Prometheus metrics (when enabled)
//
// Every response carries an X-Correlation-ID header; clients may supply their
// own via X-Correlation-ID or X-Request-ID. Error responses use a uniform
// JSON body with a stable error kind for programmatic handling. Rendered
// commands in responses always have secret arguments redacted unless the
// server was explicitly configured otherwise.
package rest
