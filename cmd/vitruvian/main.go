// Copyright (c) 2025 Andrei Moldovan
//
// This file is part of vitruvian-cipher.
//
// vitruvian-cipher is licensed under the GNU Affero General Public License v3.0.
// See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html

package main

import (
	"os"

	"github.com/MoldoAndr/vitruvian-cipher/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
