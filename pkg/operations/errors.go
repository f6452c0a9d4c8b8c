// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package operations

import "errors"

var (
	// ErrUnsupportedOperation reports a request for an operation outside
	// the catalogue.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrAuthenticationFailed reports a ciphertext whose MAC did not
	// verify. Decryption is never attempted in that case.
	ErrAuthenticationFailed = errors.New("ciphertext authentication failed")
)
